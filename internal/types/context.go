package types

import "context"

type contextKey string

const (
	CtxRequestID contextKey = "ctx_request_id"
	CtxMerchant  contextKey = "ctx_merchant"
)

const HeaderRequestID = "X-Request-ID"

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func SetMerchant(ctx context.Context, merchant string) context.Context {
	return context.WithValue(ctx, CtxMerchant, merchant)
}

func GetMerchant(ctx context.Context) string {
	if merchant, ok := ctx.Value(CtxMerchant).(string); ok {
		return merchant
	}
	return ""
}
