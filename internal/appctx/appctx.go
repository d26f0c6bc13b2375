// Package appctx wires together the pieces every concurrent service
// (HTTP, serial, motion) needs: the store, the pin pool, and the motor
// controller once it exists. The controller starts nil and is installed
// by the motion task after a successful homing sequence, so services
// must tolerate it being absent.
package appctx

import (
	"sync"

	"ossm-go/internal/iopins"
	"ossm-go/internal/motion"
	"ossm-go/internal/store"
)

// Context is the shared app-wide dependency set, safe for concurrent use.
type Context struct {
	Store *store.Store
	Pins  *iopins.Pool

	mu         sync.Mutex
	controller *motion.Controller
}

// New builds a Context around an already-open store and pin pool. The
// controller is installed later via SetController.
func New(st *store.Store, pins *iopins.Pool) *Context {
	return &Context{Store: st, Pins: pins}
}

// Controller returns the live motor controller, or nil if the motion
// task has not finished homing yet.
func (c *Context) Controller() *motion.Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

// SetController installs (or clears, if nil) the motor controller.
func (c *Context) SetController(ctrl *motion.Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}
