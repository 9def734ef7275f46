package types_test

import (
	"testing"

	"github.com/ghettovoice/gouri/internal/types"
)

func TestOptional(t *testing.T) {
	t.Parallel()

	var none types.Optional[string]
	if v, ok := none.Get(); ok || v != "" {
		t.Errorf("Optional{}.Get() = (%q, %v), want (\"\", false)", v, ok)
	}
	if none.IsSet() {
		t.Errorf("Optional{}.IsSet() = true, want false")
	}
	if got, want := none.Or("def"), "def"; got != want {
		t.Errorf("Optional{}.Or(%q) = %q, want %q", "def", got, want)
	}

	empty := types.Some("")
	if v, ok := empty.Get(); !ok || v != "" {
		t.Errorf("types.Some(\"\").Get() = (%q, %v), want (\"\", true)", v, ok)
	}
	if got, want := empty.Or("def"), ""; got != want {
		t.Errorf("types.Some(\"\").Or(%q) = %q, want %q", "def", got, want)
	}
}

func TestRenderOptions(t *testing.T) {
	t.Parallel()

	var opts *types.RenderOptions
	if opts.IgnorePortOrDefault() || opts.ShowPasswordOrDefault() {
		t.Errorf("nil options report enabled flags")
	}

	opts = &types.RenderOptions{IgnorePort: true, ShowPassword: true}
	if !opts.IgnorePortOrDefault() || !opts.ShowPasswordOrDefault() {
		t.Errorf("options %+v report disabled flags", opts)
	}
}
