package libretro

import "unsafe"

// Save states, cheats, and direct memory access are not implemented by
// this core. The methods exist so the host always gets a definite answer.

// SerializeSize returns 0: save states are not supported.
func (c *Core) SerializeSize() uint {
	return 0
}

// Serialize always fails.
func (c *Core) Serialize(data []byte) bool {
	return false
}

// Unserialize always fails.
func (c *Core) Unserialize(data []byte) bool {
	return false
}

// CheatReset does nothing.
func (c *Core) CheatReset() {}

// CheatSet does nothing.
func (c *Core) CheatSet(index uint, enabled bool, code string) {}

// LoadGameSpecial always fails; only regular loading is supported.
func (c *Core) LoadGameSpecial(gameType uint, info []GameInfo) bool {
	return false
}

// GetMemoryData exposes no memory regions.
func (c *Core) GetMemoryData(id uint) unsafe.Pointer {
	return nil
}

// GetMemorySize exposes no memory regions.
func (c *Core) GetMemorySize(id uint) uint {
	return 0
}
