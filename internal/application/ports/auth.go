package ports

import "context"

type accessTokenKey struct{}

// WithAccessToken adjunta el token del usuario al contexto para que el backend hospedado
// aplique sus políticas por usuario. Los refrescos en segundo plano heredan el valor.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessToken token del usuario adjunto al contexto, vacío si no hay.
func AccessToken(ctx context.Context) string {
	t, _ := ctx.Value(accessTokenKey{}).(string)
	return t
}
