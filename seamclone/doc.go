// Package seamclone implements a Poisson-style seamless clone compositor:
// it pastes an opaque foreground region onto a background so the seam
// between the two is invisible.
//
// The pipeline is, leaves-first: outline extraction of the foreground's
// opaque region (see [FindOutline]), construction of a refined triangular
// mesh over that outline (see [BuildMesh]), a per-vertex sample-list plan
// approximating mean-value boundary interpolation (see [ComputeSampling]),
// and a render cache plus tile renderer that evaluate the interpolated
// color-difference field at render time (see [Context.PrepareRender] and
// [Context.Render]).
//
// A [Context] owns the outline, mesh, sampling, and render cache for one
// foreground region and sequences updates across that lifecycle. It is not
// safe to call [Context.PrepareRender] concurrently with itself or with
// [Context.Render] on the same Context; see the package-level concurrency
// note on [Context].
package seamclone
