// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
)

type resource interface {
	Release()
}

// resourceCache keeps the resources used during the current frame.
// Resources not used for a whole frame are released by frame.
type resourceCache[K comparable, V resource] struct {
	res    map[K]V
	newRes map[K]V
}

func newResourceCache[K comparable, V resource]() *resourceCache[K, V] {
	return &resourceCache[K, V]{
		res:    make(map[K]V),
		newRes: make(map[K]V),
	}
}

func (r *resourceCache[K, V]) get(key K) (V, bool) {
	v, exists := r.res[key]
	if exists {
		r.newRes[key] = v
	}
	return v, exists
}

func (r *resourceCache[K, V]) put(key K, val V) {
	if _, exists := r.newRes[key]; exists {
		panic(fmt.Errorf("key exists, %v", key))
	}
	r.res[key] = val
	r.newRes[key] = val
}

func (r *resourceCache[K, V]) frame() {
	for k, v := range r.res {
		if _, exists := r.newRes[k]; !exists {
			delete(r.res, k)
			v.Release()
		}
	}
	for k, v := range r.newRes {
		delete(r.newRes, k)
		r.res[k] = v
	}
}

func (r *resourceCache[K, V]) len() int {
	return len(r.res)
}

func (r *resourceCache[K, V]) release() {
	for _, v := range r.res {
		v.Release()
	}
	r.newRes = nil
	r.res = nil
}
