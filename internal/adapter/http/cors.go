package httpadapter

import (
	"context"
	"slices"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const corsAllowMethods = "GET,POST,PUT,OPTIONS"
const corsAllowHeaders = "Content-Type"

// corsPolicy answers for the browser front-end. An empty origin list or one
// containing "*" allows any origin; otherwise the request Origin is echoed
// only when listed.
type corsPolicy struct {
	origins []string
}

func (p corsPolicy) allowOrigin(origin string) (string, bool) {
	if len(p.origins) == 0 || slices.Contains(p.origins, "*") {
		return "*", true
	}
	if origin != "" && slices.Contains(p.origins, origin) {
		return origin, true
	}
	return "", false
}

func (p corsPolicy) apply(ctx *app.RequestContext) {
	allowed, ok := p.allowOrigin(string(ctx.GetHeader("Origin")))
	if !ok {
		return
	}
	h := &ctx.Response.Header
	h.Set("Access-Control-Allow-Origin", allowed)
	if allowed != "*" {
		h.Set("Vary", "Origin")
	}
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Max-Age", "600")
}

func (p corsPolicy) middleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		p.apply(ctx)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
