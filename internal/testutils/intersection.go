package testutils

import "github.com/aretw0/strips/pkg/domain"

// Car describes one agent of the intersection fixture.
type Car struct {
	Name      string
	Start     string
	Direction string
	Exit      string
}

// IntersectionCars are the four cars crossing the intersection, one per entrance.
var IntersectionCars = []Car{
	{Name: "a1", Start: "south-ent", Direction: "north", Exit: "north-ex"},
	{Name: "a2", Start: "north-ent", Direction: "south", Exit: "south-ex"},
	{Name: "a3", Start: "west-ent", Direction: "east", Exit: "east-ex"},
	{Name: "a4", Start: "east-ent", Direction: "west", Exit: "west-ex"},
}

// IntersectionLocations are the twelve cells of the intersection in declaration order.
var IntersectionLocations = []string{
	"south-ent", "north-ent", "west-ent", "east-ent",
	"cross-se", "cross-ne", "cross-nw", "cross-sw",
	"north-ex", "south-ex", "east-ex", "west-ex",
}

// IntersectionDirections are the travel directions.
var IntersectionDirections = []string{"north", "south", "east", "west"}

// intersectionRoads lists the connected chain of every direction.
var intersectionRoads = map[string][]string{
	"north": {"south-ent", "cross-se", "cross-ne", "north-ex"},
	"south": {"north-ent", "cross-nw", "cross-sw", "south-ex"},
	"west":  {"east-ent", "cross-ne", "cross-nw", "west-ex"},
	"east":  {"west-ent", "cross-sw", "cross-se", "east-ex"},
}

// IntersectionDomain returns the two-action intersection domain: cars arrive
// at their entrance and drive one cell at a time along their direction.
func IntersectionDomain() *domain.Domain {
	atom := domain.NewAtom
	return &domain.Domain{
		Name: "intersection",
		Types: []domain.Type{
			{Name: "agent"},
			{Name: "car", Parents: []string{"agent"}},
			{Name: "loc"},
			{Name: "direction"},
		},
		Predicates: []domain.Predicate{
			{Name: "at", Params: []domain.Parameter{{Name: "a", Type: "car"}, {Name: "l", Type: "loc"}}},
			{Name: "free", Params: []domain.Parameter{{Name: "l", Type: "loc"}}},
			{Name: "arrived", Params: []domain.Parameter{{Name: "a", Type: "car"}}},
			{Name: "start", Params: []domain.Parameter{{Name: "a", Type: "car"}, {Name: "l", Type: "loc"}}},
			{Name: "traveldirection", Params: []domain.Parameter{{Name: "a", Type: "car"}, {Name: "d", Type: "direction"}}},
			{Name: "connected", Params: []domain.Parameter{{Name: "l1", Type: "loc"}, {Name: "l2", Type: "loc"}, {Name: "d", Type: "direction"}}},
		},
		Schemas: []domain.Schema{
			{
				Name:   "arrive",
				Params: []domain.Parameter{{Name: "a", Type: "car"}, {Name: "l", Type: "loc"}},
				Pre:    []domain.Atom{atom("start", "?a", "?l"), atom("free", "?l")},
				NegPre: []domain.Atom{atom("arrived", "?a")},
				Add:    []domain.Atom{atom("at", "?a", "?l"), atom("arrived", "?a")},
				Del:    []domain.Atom{atom("free", "?l")},
			},
			{
				Name: "drive",
				Params: []domain.Parameter{
					{Name: "a", Type: "car"}, {Name: "l1", Type: "loc"},
					{Name: "l2", Type: "loc"}, {Name: "d", Type: "direction"},
				},
				Pre: []domain.Atom{
					atom("at", "?a", "?l1"), atom("free", "?l2"),
					atom("traveldirection", "?a", "?d"), atom("connected", "?l1", "?l2", "?d"),
				},
				Add: []domain.Atom{atom("at", "?a", "?l2"), atom("free", "?l1")},
				Del: []domain.Atom{atom("free", "?l2"), atom("at", "?a", "?l1")},
			},
		},
	}
}

// IntersectionProblem returns the instance with the given cars. Roads named
// in without are left out of the initial state, given as "l1 l2 dir".
func IntersectionProblem(cars []Car, without ...string) *domain.Problem {
	p := &domain.Problem{Name: "intersection", Domain: "intersection"}
	for _, c := range cars {
		p.Objects = append(p.Objects, domain.Object{Name: c.Name, Type: "car"})
	}
	for _, l := range IntersectionLocations {
		p.Objects = append(p.Objects, domain.Object{Name: l, Type: "loc"})
	}
	for _, d := range IntersectionDirections {
		p.Objects = append(p.Objects, domain.Object{Name: d, Type: "direction"})
	}

	skip := make(map[string]bool, len(without))
	for _, w := range without {
		skip[w] = true
	}
	for _, l := range IntersectionLocations {
		p.Init = append(p.Init, domain.NewAtom("free", l))
	}
	for _, d := range IntersectionDirections {
		road := intersectionRoads[d]
		for i := 0; i+1 < len(road); i++ {
			if skip[road[i]+" "+road[i+1]+" "+d] {
				continue
			}
			p.Init = append(p.Init, domain.NewAtom("connected", road[i], road[i+1], d))
		}
	}
	for _, c := range cars {
		p.Init = append(p.Init,
			domain.NewAtom("start", c.Name, c.Start),
			domain.NewAtom("traveldirection", c.Name, c.Direction),
		)
		p.Goal.Positive = append(p.Goal.Positive, domain.NewAtom("at", c.Name, c.Exit))
	}
	return p
}

// Intersection returns the full four-car fixture.
func Intersection() (*domain.Domain, *domain.Problem) {
	return IntersectionDomain(), IntersectionProblem(IntersectionCars)
}
