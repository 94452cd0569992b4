package reconciler

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/imamik/nifcloud-lb/internal/platform/nifcloud"
)

// FilterDiff is the change needed to bring a listener filter to the target.
type FilterDiff struct {
	FilterType  int
	TypeChanged bool
	// Purge lists addresses to remove, sorted.
	Purge []string
	// Merge lists addresses to add, sorted.
	Merge []string
}

// DiffFilter compares the desired filter with the observed one. Merge is
// desired minus observed. Purge is observed minus desired, and only filled
// when purge is set. The no-filter sentinel never takes part.
func DiffFilter(desired []string, desiredType int, observed []string, observedType int, purge bool) FilterDiff {
	want := addressSet(desired)
	have := addressSet(observed)

	d := FilterDiff{
		FilterType:  desiredType,
		TypeChanged: desiredType != observedType,
		Merge:       sortedSlice(want.Difference(have)),
	}
	if purge {
		d.Purge = sortedSlice(have.Difference(want))
	}
	return d
}

// NoOp reports whether no SetFilterForLoadBalancer call is needed.
func (d FilterDiff) NoOp() bool {
	return !d.TypeChanged && len(d.Purge) == 0 && len(d.Merge) == 0
}

// Entries numbers purge entries first, then merge entries.
func (d FilterDiff) Entries() []nifcloud.FilterEntry {
	entries := make([]nifcloud.FilterEntry, 0, len(d.Purge)+len(d.Merge))
	for _, ip := range d.Purge {
		entries = append(entries, nifcloud.FilterEntry{IPAddress: ip, AddOnFilter: false})
	}
	for _, ip := range d.Merge {
		entries = append(entries, nifcloud.FilterEntry{IPAddress: ip, AddOnFilter: true})
	}
	return entries
}

// InstanceDiff is the change needed to bring registered instances to the target.
type InstanceDiff struct {
	Register   []string
	Deregister []string
}

// DiffInstances has the same shape as DiffFilter: Register is always
// computed, Deregister only when purge is set.
func DiffInstances(desired, observed []string, purge bool) InstanceDiff {
	want := idSet(desired)
	have := idSet(observed)

	d := InstanceDiff{Register: sortedSlice(want.Difference(have))}
	if purge {
		d.Deregister = sortedSlice(have.Difference(want))
	}
	return d
}

// NoOp reports whether no instance call is needed.
func (d InstanceDiff) NoOp() bool {
	return len(d.Register) == 0 && len(d.Deregister) == 0
}

func addressSet(ips []string) mapset.Set[string] {
	s := mapset.NewThreadUnsafeSet[string]()
	for _, ip := range ips {
		if ip != "" && ip != nifcloud.NoFilterSentinel {
			s.Add(ip)
		}
	}
	return s
}

func idSet(ids []string) mapset.Set[string] {
	s := mapset.NewThreadUnsafeSet[string]()
	for _, id := range ids {
		if id != "" {
			s.Add(id)
		}
	}
	return s
}

func sortedSlice(s mapset.Set[string]) []string {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
