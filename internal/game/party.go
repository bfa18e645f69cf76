package game

import "sort"

type PartyMember struct {
	ID     uint32
	Name   string
	Map    string
	Leader bool
	Online bool
}

// Party is the local player's party. An empty Name means no party.
type Party struct {
	Name    string
	members map[uint32]PartyMember
}

func NewParty() *Party {
	return &Party{members: make(map[uint32]PartyMember)}
}

func (p *Party) InParty() bool { return p.Name != "" }

func (p *Party) SetMember(m PartyMember) {
	p.members[m.ID] = m
}

func (p *Party) Member(id uint32) (PartyMember, bool) {
	m, ok := p.members[id]
	return m, ok
}

func (p *Party) RemoveMember(id uint32) {
	delete(p.members, id)
}

// Leave forgets the party and all its members.
func (p *Party) Leave() {
	p.Name = ""
	p.members = make(map[uint32]PartyMember)
}

// Members returns the members ordered by id.
func (p *Party) Members() []PartyMember {
	members := make([]PartyMember, 0, len(p.members))
	for _, m := range p.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members
}
