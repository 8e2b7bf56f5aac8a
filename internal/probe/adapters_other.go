//go:build !linux

package probe

func refineAdapter(a *Adapter) {}
