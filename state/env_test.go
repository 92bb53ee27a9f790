package state

import (
	"context"
	"testing"
	"time"
)

func TestEnvFromContext(t *testing.T) {
	ctx := ContextWithEnv(context.Background())

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() = nil")
	}
	// same instance on repeated lookups
	if EnvFromContext(ctx) != env {
		t.Error("EnvFromContext() returned a different instance")
	}
	if env.Uptime() < 0 || env.Uptime() > time.Minute {
		t.Errorf("Uptime() = %v, not plausible", env.Uptime())
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for context without environment")
		}
	}()
	EnvFromContext(context.Background())
}
