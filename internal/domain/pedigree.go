package domain

import (
	"errors"
	"fmt"
)

// Sex of a pedigree individual.
type Sex string

const (
	MALE        Sex = "MALE"
	FEMALE      Sex = "FEMALE"
	UNKNOWN_SEX Sex = "UNKNOWN"
)

// AffectedStatus of a pedigree individual with respect to the disease under
// study.
type AffectedStatus string

const (
	AFFECTED       AffectedStatus = "AFFECTED"
	UNAFFECTED     AffectedStatus = "UNAFFECTED"
	UNKNOWN_STATUS AffectedStatus = "UNKNOWN"
)

// Individual is one member of a pedigree. Parent identifiers are empty when
// the parent is not part of the pedigree.
type Individual struct {
	ID       string         `json:"id"`
	FatherID string         `json:"fatherId,omitempty"`
	MotherID string         `json:"motherId,omitempty"`
	Sex      Sex            `json:"sex"`
	Status   AffectedStatus `json:"status"`
}

// IsAffected reports whether the individual carries the disease phenotype.
func (i Individual) IsAffected() bool {
	return i.Status == AFFECTED
}

// Pedigree is an immutable rooted family tree. Parent references must point
// at members of the same pedigree or be absent.
type Pedigree struct {
	members map[string]Individual
	order   []string
}

// NewPedigree validates and constructs a pedigree from its members.
func NewPedigree(individuals ...Individual) (*Pedigree, error) {
	if len(individuals) == 0 {
		return nil, errors.New("pedigree requires at least one individual")
	}
	members := make(map[string]Individual, len(individuals))
	order := make([]string, 0, len(individuals))
	for _, individual := range individuals {
		if individual.ID == "" {
			return nil, errors.New("pedigree individual requires an identifier")
		}
		if _, dup := members[individual.ID]; dup {
			return nil, fmt.Errorf("duplicate pedigree individual %q", individual.ID)
		}
		members[individual.ID] = individual
		order = append(order, individual.ID)
	}
	for _, individual := range members {
		for _, parentID := range []string{individual.FatherID, individual.MotherID} {
			if parentID == "" {
				continue
			}
			if _, ok := members[parentID]; !ok {
				return nil, fmt.Errorf("individual %q references parent %q not in pedigree", individual.ID, parentID)
			}
		}
	}
	return &Pedigree{members: members, order: order}, nil
}

// SingleSamplePedigree builds the trivial pedigree of one affected proband,
// the default when no family structure is supplied.
func SingleSamplePedigree(sampleID string) *Pedigree {
	pedigree, err := NewPedigree(Individual{ID: sampleID, Sex: UNKNOWN_SEX, Status: AFFECTED})
	if err != nil {
		// A non-empty identifier cannot fail validation.
		panic(err)
	}
	return pedigree
}

// Members returns the individuals in declaration order.
func (p *Pedigree) Members() []Individual {
	members := make([]Individual, 0, len(p.order))
	for _, id := range p.order {
		members = append(members, p.members[id])
	}
	return members
}

// Individual returns the member with the given identifier.
func (p *Pedigree) Individual(id string) (Individual, bool) {
	individual, ok := p.members[id]
	return individual, ok
}

// Contains reports whether the identifier names a pedigree member.
func (p *Pedigree) Contains(id string) bool {
	_, ok := p.members[id]
	return ok
}

// Size returns the number of members.
func (p *Pedigree) Size() int {
	return len(p.members)
}

// Affected returns the affected members in declaration order.
func (p *Pedigree) Affected() []Individual {
	var affected []Individual
	for _, id := range p.order {
		if p.members[id].IsAffected() {
			affected = append(affected, p.members[id])
		}
	}
	return affected
}

// Unaffected returns the members with UNAFFECTED status in declaration order.
// Members of unknown status are in neither list.
func (p *Pedigree) Unaffected() []Individual {
	var unaffected []Individual
	for _, id := range p.order {
		if p.members[id].Status == UNAFFECTED {
			unaffected = append(unaffected, p.members[id])
		}
	}
	return unaffected
}

// UnaffectedParentsOfAffected returns the unaffected members that are a
// parent of at least one affected member.
func (p *Pedigree) UnaffectedParentsOfAffected() []Individual {
	parentIDs := make(map[string]bool)
	for _, affected := range p.Affected() {
		if affected.FatherID != "" {
			parentIDs[affected.FatherID] = true
		}
		if affected.MotherID != "" {
			parentIDs[affected.MotherID] = true
		}
	}
	var parents []Individual
	for _, id := range p.order {
		member := p.members[id]
		if parentIDs[id] && member.Status == UNAFFECTED {
			parents = append(parents, member)
		}
	}
	return parents
}
