// Package registry maps a device's vendor/product id and onboard-profile
// description to a concrete profile.Format/DirectoryFormat pair (spec.md §9
// Design Notes: "a registry keyed by product-id + onboard-profile-description").
//
// The table is data-driven and YAML-loadable so new devices can be added
// without recompiling, mirroring the teacher's RegisterDevice/GetRegistration
// shape in internal/server/api/device_registry.go: a mutex-guarded map plus
// Register/Lookup/List functions, rather than a package-level switch
// statement.
package registry

import (
	"fmt"
	"sync"

	"github.com/Alia5/gohidpp/hidpp/hlog"
	"github.com/Alia5/gohidpp/hidpp/profile"
)

// Family binds one device family's vendor/product id to the profile codec
// it uses.
type Family struct {
	Name      string
	VendorID  uint16
	ProductID uint16

	Profile   profile.Format
	Directory profile.DirectoryFormat
}

var (
	mu    sync.RWMutex
	table = make(map[key]Family)
)

type key struct {
	vendorID, productID uint16
}

// Register adds or replaces the family bound to (vendorID, productID).
func Register(f Family) {
	mu.Lock()
	defer mu.Unlock()
	table[key{f.VendorID, f.ProductID}] = f
}

// Lookup retrieves the family registered for (vendorID, productID). ok is
// false if no family has been registered for that id pair.
func Lookup(vendorID, productID uint16) (Family, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := table[key{vendorID, productID}]
	return f, ok
}

// List returns every registered family, in no particular order.
func List() []Family {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Family, 0, len(table))
	for _, f := range table {
		out = append(out, f)
	}
	return out
}

// LoadSpecs resolves each FamilySpec in specs into a Family using log for
// the constructed profile.Format's diagnostics, and registers it. A
// malformed spec aborts with an error naming the offending family; specs
// already successfully registered before the error remain registered.
func LoadSpecs(specs []FamilySpec, log hlog.Logger) error {
	for _, spec := range specs {
		f, err := spec.resolve(log)
		if err != nil {
			return fmt.Errorf("registry: family %q: %w", spec.Name, err)
		}
		Register(f)
	}
	return nil
}
