package schedule

import (
	"fmt"
	"strconv"
)

// Instance is a directory entry as the resolver sees it.
type Instance struct {
	ID   string
	Name string
}

// InstanceLister returns the known instances of one app type in directory
// order. *directory.Cache satisfies it.
type InstanceLister interface {
	Instances(app AppType) []Instance
}

// Describe renders a human label for an address. It never fails: unknown
// apps and instances that no longer exist degrade to generic labels.
func Describe(address string, dir InstanceLister) string {
	addr := Decode(address)
	if addr.IsGlobal() {
		return "All Apps (Global)"
	}
	app, err := addr.AppType()
	label := addr.App
	if err == nil {
		label = app.Label()
	}
	if !addr.HasSelector {
		return label
	}
	if addr.IsAll() {
		return fmt.Sprintf("All %s Instances", label)
	}
	if err == nil && dir != nil {
		if name, ok := lookupInstance(app, addr.Selector, dir.Instances(app)); ok {
			return fmt.Sprintf("%s — %s", label, name)
		}
	}
	return fmt.Sprintf("%s — Instance %s", label, addr.Selector)
}

func lookupInstance(app AppType, selector string, instances []Instance) (string, bool) {
	if app.UsesNumericIDs() {
		want, err := strconv.ParseInt(selector, 10, 64)
		if err != nil {
			return "", false
		}
		for _, inst := range instances {
			if id, err := strconv.ParseInt(inst.ID, 10, 64); err == nil && id == want {
				return inst.Name, true
			}
		}
		return "", false
	}
	for _, inst := range instances {
		if inst.ID == selector {
			return inst.Name, true
		}
	}
	// legacy rules address standard instances by array index
	if idx, err := strconv.Atoi(selector); err == nil && idx >= 0 && idx < len(instances) {
		return instances[idx].Name, true
	}
	return "", false
}
