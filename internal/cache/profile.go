// Package cache keeps recently resolved profiles in memory.
package cache

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/care-portal-api/internal/model"
)

// ProfileCache is read on every authenticated request. Writers that change a
// role or plan must call Invalidate.
type ProfileCache interface {
	Get(id uuid.UUID) (*model.Profile, bool)
	Set(profile *model.Profile)
	Invalidate(id uuid.UUID)
}

type profileCache struct {
	c *gocache.Cache
}

func NewProfileCache(ttl, cleanupInterval time.Duration) ProfileCache {
	return &profileCache{c: gocache.New(ttl, cleanupInterval)}
}

func (p *profileCache) Get(id uuid.UUID) (*model.Profile, bool) {
	v, ok := p.c.Get(id.String())
	if !ok {
		return nil, false
	}
	profile := *v.(*model.Profile)
	return &profile, true
}

// Set stores a copy so callers cannot mutate the cached value
func (p *profileCache) Set(profile *model.Profile) {
	cp := *profile
	p.c.SetDefault(profile.ID.String(), &cp)
}

func (p *profileCache) Invalidate(id uuid.UUID) {
	p.c.Delete(id.String())
}
