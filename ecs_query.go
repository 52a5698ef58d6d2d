package gekko

import (
	"reflect"
	"slices"
)

// Queries visit every entity whose archetype holds all requested components.
// Components listed as optionals may be missing, in which case the callback
// receives nil for them. Returning false from the callback stops the walk.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

// column resolves one component slice of an archetype.
// ok is false when the archetype cannot satisfy the query.
func column[T any](ecs *Ecs, arch *archetype, opt set[componentId]) (data []T, ok bool) {
	id := identifyComponent[T](ecs)
	if compData, found := arch.componentData[id]; found {
		return compData.([]T), true
	}
	if _, optional := opt[id]; optional {
		return nil, true
	}
	return nil, false
}

func at[T any](data []T, r row) *T {
	if data == nil {
		return nil
	}
	return &data[r]
}

type entityRow struct {
	eid EntityId
	row row
}

// sortedRows returns the live rows of an archetype ordered by entity id.
func sortedRows(arch *archetype) []entityRow {
	rows := make([]entityRow, 0, len(arch.entities))
	for eid, r := range arch.entities {
		rows = append(rows, entityRow{eid: eid, row: r})
	}
	slices.SortFunc(rows, func(a, b entityRow) int {
		switch {
		case a.eid < b.eid:
			return -1
		case a.eid > b.eid:
			return 1
		}
		return 0
	})
	return rows
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, ok := column[A](q.ecs, arch, opt)
		if !ok {
			continue
		}

		for _, er := range sortedRows(arch) {
			if !m(er.eid, at(comps1, er.row)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, ok := column[A](q.ecs, arch, opt)
		if !ok {
			continue
		}
		comps2, ok := column[B](q.ecs, arch, opt)
		if !ok {
			continue
		}

		for _, er := range sortedRows(arch) {
			if !m(er.eid, at(comps1, er.row), at(comps2, er.row)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, ok := column[A](q.ecs, arch, opt)
		if !ok {
			continue
		}
		comps2, ok := column[B](q.ecs, arch, opt)
		if !ok {
			continue
		}
		comps3, ok := column[C](q.ecs, arch, opt)
		if !ok {
			continue
		}

		for _, er := range sortedRows(arch) {
			if !m(er.eid, at(comps1, er.row), at(comps2, er.row), at(comps3, er.row)) {
				return
			}
		}
	}
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentType(c))] = struct{}{}
	}

	return res
}

func identifyComponent[A any](ecs *Ecs) componentId {
	var a A
	return ecs.getComponentId(reflect.TypeOf(a))
}
