package session

import "sync"

// DefaultVolume is the gain of a guild that never set one.
const DefaultVolume = 0.1

// VolumeStore keeps the per-guild gain. Values live until the guild's
// session is stopped or torn down.
type VolumeStore struct {
	mu      sync.RWMutex
	volumes map[string]float64
}

func NewVolumeStore() *VolumeStore {
	return &VolumeStore{volumes: make(map[string]float64)}
}

// Set clamps v to [0,1], stores it and returns the stored value.
func (v *VolumeStore) Set(guildID string, vol float64) float64 {
	vol = clamp(vol, 0, 1)
	v.mu.Lock()
	v.volumes[guildID] = vol
	v.mu.Unlock()
	return vol
}

func (v *VolumeStore) Get(guildID string) float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if vol, ok := v.volumes[guildID]; ok {
		return vol
	}
	return DefaultVolume
}

func (v *VolumeStore) Reset(guildID string) {
	v.mu.Lock()
	delete(v.volumes, guildID)
	v.mu.Unlock()
}

func clamp(v, lo, hi float64) float64 {
	// NaN compares false both ways and would otherwise slip through.
	if v != v {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
