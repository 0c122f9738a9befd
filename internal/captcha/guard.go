package captcha

import "context"

// Guard wraps the verifier with the development bypass the public forms use.
type Guard struct {
	Verifier       *Verifier
	AllowDevBypass bool
	Env            string
}

func (g *Guard) Check(ctx context.Context, token string) error {
	if g == nil || g.Verifier == nil {
		return nil
	}
	if g.Env == "development" {
		return nil
	}
	if g.AllowDevBypass && token == "dev-bypass" {
		return nil
	}
	return g.Verifier.Verify(ctx, token)
}
