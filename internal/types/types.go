// Package types contains common types shared by the uri package and its helpers.
package types

import "io"

// Renderer is an interface that is used to render a type to a string or a writer.
type Renderer interface {
	// Render renders the type to a string with the given options.
	Render(opts *RenderOptions) string
	// RenderTo renders the type to a writer with the given options.
	RenderTo(w io.Writer, opts *RenderOptions) (int, error)
}

// RenderOptions is a struct that is used to pass options to rendering methods.
// A nil *RenderOptions is equivalent to the zero value.
type RenderOptions struct {
	// IgnorePort omits the port from the authority even when it differs from the scheme default.
	IgnorePort bool `json:"ignore_port,omitempty"`
	// ShowPassword reveals the password in the user info.
	// Passwords are hidden by default so that routine rendering (logs, errors) never leaks them.
	ShowPassword bool `json:"show_password,omitempty"`
}

// IgnorePortOrDefault reports the IgnorePort flag of the options, false for nil options.
func (o *RenderOptions) IgnorePortOrDefault() bool { return o != nil && o.IgnorePort }

// ShowPasswordOrDefault reports the ShowPassword flag of the options, false for nil options.
func (o *RenderOptions) ShowPasswordOrDefault() bool { return o != nil && o.ShowPassword }

type ValidFlag interface {
	IsValid() bool
}

// IsValid returns true if the value has method `IsValid() bool` and it returns true.
func IsValid(v any) bool {
	vv, ok := v.(ValidFlag)
	return ok && vv.IsValid()
}

type Equalable interface {
	Equal(val any) bool
}

type Cloneable[T any] interface {
	Clone() T
}
