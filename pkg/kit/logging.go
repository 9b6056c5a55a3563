package kit

import "go.uber.org/zap"

// NewLogger builds the production JSON logger used across the storefront,
// tagged with the owning component.
func NewLogger(component string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"component": component}
	l, _ := cfg.Build()
	return l
}
