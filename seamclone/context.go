package seamclone

import "fmt"

// Options holds a Context's construction-time configuration, assembled
// by the functional [Option] values passed to [New].
type Options struct {
	refiner Refiner

	// refineStepFactor sets max_refine_steps = refineStepFactor *
	// outline.Len() for every mesh build.
	refineStepFactor int
}

func defaultOptions() Options {
	return Options{
		refiner:          NewDefaultRefiner(),
		refineStepFactor: 5,
	}
}

// Option configures a [Context] at construction time.
type Option func(*Options)

// WithRefiner overrides the constrained-Delaunay refiner collaborator
// used to build every mesh. The default is [NewDefaultRefiner].
func WithRefiner(r Refiner) Option {
	return func(o *Options) { o.refiner = r }
}

// WithRefineStepFactor overrides the multiplier applied to the outline
// length to obtain the refiner's Steiner-point step budget. The default
// is 5.
func WithRefineStepFactor(factor int) Option {
	return func(o *Options) { o.refineStepFactor = factor }
}

// Context is the sole long-lived owner of one seamless-clone region's
// derived state: its outline, mesh, sample lists, and render cache. A
// Context must not be touched by more than one goroutine at a time,
// except that [Context.Render] may be called concurrently by multiple
// goroutines once [Context.PrepareRender] has succeeded and no other
// method is called meanwhile.
type Context struct {
	opts Options

	outline    *Outline
	mesh       *Mesh
	meshBounds Rect
	sampling   MeshSampling

	cacheUVT    bool
	renderCache *RenderCache
}

// New extracts the outline of fg's opaque region within roi (at the
// given alpha threshold) and builds its mesh and sample lists. It
// returns an error if no single opaque region can be found.
func New(fg Buffer, roi Rect, threshold float64, opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	outline, _, err := FindOutline(fg, roi, threshold)
	if err != nil {
		return nil, fmt.Errorf("seamclone: new: %w", err)
	}

	ctx := &Context{opts: o}
	ctx.rebuildFromOutline(outline)
	return ctx, nil
}

func (ctx *Context) rebuildFromOutline(outline *Outline) {
	maxSteps := ctx.opts.refineStepFactor * outline.Len()
	mesh, bounds := BuildMesh(outline, maxSteps, ctx.opts.refiner)
	sampling := ComputeSampling(outline, mesh)

	ctx.outline = outline
	ctx.mesh = mesh
	ctx.meshBounds = bounds
	ctx.sampling = sampling
}

// Update re-extracts the outline of fg within roi and, if it differs
// from the context's current outline, rebuilds the mesh and sample lists
// from scratch and drops the render cache, so [Context.PrepareRender]
// must run again before [Context.Render]. If the newly extracted outline is
// unchanged (same point set, compared per [Outline.Equal]), Update is a
// no-op and the existing mesh is reused by pointer identity.
//
// On extraction failure, Update leaves ctx in its previous valid state
// and returns the extraction error.
func (ctx *Context) Update(fg Buffer, roi Rect, threshold float64) (bool, error) {
	outline, _, err := FindOutline(fg, roi, threshold)
	if err != nil {
		return false, fmt.Errorf("seamclone: update: %w", err)
	}

	if ctx.outline != nil && ctx.outline.Equal(outline) {
		return true, nil
	}

	// Drop stale derived state in dependency order: render_cache (and its
	// embedded uvt), sampling, mesh, outline.
	ctx.renderCache = nil
	ctx.sampling = nil
	ctx.mesh = nil
	ctx.outline = nil

	ctx.rebuildFromOutline(outline)
	return true, nil
}

// SetUVTCache enables or disables the per-pixel UV cache computed by
// [Context.PrepareRender]. Disabling it immediately drops any cache
// already present; (re-)enabling it takes effect starting from the next
// PrepareRender call.
func (ctx *Context) SetUVTCache(enabled bool) {
	ctx.cacheUVT = enabled
	if !enabled && ctx.renderCache != nil {
		ctx.renderCache.uvt = nil
	}
}

// PrepareRender recomputes the context's render cache against info. It
// must be called, and must succeed, before [Context.Render]; it is not
// safe to call concurrently with itself or with Render on the same
// context.
func (ctx *Context) PrepareRender(info RenderInfo) bool {
	if ctx.renderCache == nil {
		ctx.renderCache = newRenderCache()
	}
	return prepareRenderCache(ctx.mesh, ctx.sampling, ctx.cacheUVT, info, ctx.renderCache)
}

// Render writes the seamless-clone-corrected foreground for the portion
// of partRect overlapping the mesh into out. It performs only reads
// against ctx; once PrepareRender has succeeded and no other method runs
// concurrently, Render may safely be called from multiple goroutines at
// once.
func (ctx *Context) Render(info RenderInfo, partRect Rect, out WritableBuffer) bool {
	return Render(ctx.mesh, ctx.meshBounds, ctx.renderCache, info, partRect, out)
}

// Free drops every piece of state the context holds, in dependency
// order: render cache, sampling, mesh, outline. After Free, ctx must not
// be used again.
func (ctx *Context) Free() {
	ctx.renderCache = nil
	ctx.sampling = nil
	ctx.mesh = nil
	ctx.outline = nil
}
