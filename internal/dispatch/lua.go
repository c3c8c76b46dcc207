package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keybot/internal/input/key"
)

// LuaHookFunction is the global a hook script must define. It receives the
// key name and "down" or "up". Returning a string or false fails the
// dispatch; returning nothing or true succeeds.
const LuaHookFunction = "on_key"

// DefaultLuaTimeout bounds a single hook call.
const DefaultLuaTimeout = 5 * time.Second

// ErrHookRejected is returned when the hook returns false.
var ErrHookRejected = errors.New("lua hook rejected event")

// Lua forwards events to a sandboxed Lua hook.
//
// gopher-lua states are not goroutine-safe; calls are serialized.
type Lua struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	timeout time.Duration
	closed  bool
}

// NewLua loads a hook script from path.
func NewLua(path string) (*Lua, error) {
	return newLua(func(L *lua.LState) error { return L.DoFile(path) })
}

// NewLuaString loads a hook script from source code.
func NewLuaString(code string) (*Lua, error) {
	return newLua(func(L *lua.LState) error { return L.DoString(code) })
}

func newLua(load func(*lua.LState) error) (*Lua, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	if err := load(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("load lua hook: %w", err)
	}

	fn, ok := L.GetGlobal(LuaHookFunction).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("lua hook must define function %q", LuaHookFunction)
	}

	return &Lua{L: L, fn: fn, timeout: DefaultLuaTimeout}, nil
}

// openSafeLibraries opens only the libraries that cannot touch the host.
// io, os, debug and package are left closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Dispatch calls the hook.
func (h *Lua) Dispatch(k key.Key, t key.Toggle) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return &KeyError{Key: k, Toggle: t, Err: ErrClosed}
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	err := h.L.CallByParam(lua.P{Fn: h.fn, NRet: 1, Protect: true},
		lua.LString(k.String()), lua.LString(t.String()))
	if err != nil {
		return &KeyError{Key: k, Toggle: t, Err: err}
	}

	ret := h.L.Get(-1)
	h.L.Pop(1)

	switch v := ret.(type) {
	case lua.LString:
		return &KeyError{Key: k, Toggle: t, Err: errors.New(string(v))}
	case lua.LBool:
		if !bool(v) {
			return &KeyError{Key: k, Toggle: t, Err: ErrHookRejected}
		}
	}
	return nil
}

// Close releases the Lua state.
func (h *Lua) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		h.L.Close()
	}
	return nil
}
