package domain

import "slices"

// Participants is an ordered list of client ids without duplicates.
type Participants []string

func (p Participants) Contains(clientId string) bool {
	return slices.Contains(p, clientId)
}

// Add appends clientId and reports whether the list changed.
func (p *Participants) Add(clientId string) bool {
	if p.Contains(clientId) {
		return false
	}

	*p = append(*p, clientId)
	return true
}

// Remove deletes clientId and reports whether the list changed.
func (p *Participants) Remove(clientId string) bool {
	index := slices.Index(*p, clientId)
	if index < 0 {
		return false
	}

	*p = slices.Delete(*p, index, index+1)
	return true
}

func (p Participants) Length() int {
	return len(p)
}

func (p Participants) AsList() []string {
	list := make([]string, len(p))
	copy(list, p)
	return list
}
