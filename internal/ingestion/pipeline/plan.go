package pipeline

import (
	"fmt"

	"github.com/yungbote/worldgraph/internal/domain/world"
)

type PassKind string

const (
	PassNodes PassKind = "nodes"
	PassLinks PassKind = "links"
)

// Pass is one step of a run. A node pass upserts every record of Category;
// a link pass merges the edges of Relations, all sourced from Category.
type Pass struct {
	Name      string
	Kind      PassKind
	Category  world.Category
	Relations []world.Relation
}

// References lists every category a link pass touches, source first.
func (p Pass) References() []world.Category {
	if p.Kind != PassLinks {
		return nil
	}
	out := []world.Category{p.Category}
	seen := map[world.Category]bool{p.Category: true}
	for _, r := range p.Relations {
		if !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}
	return out
}

type Plan struct {
	Passes []Pass
}

// Validate enforces that every category a link pass references has had its
// node pass earlier in the plan, and that no node pass for a category runs
// after a link pass that references it.
func (p Plan) Validate() error {
	written := map[world.Category]bool{}
	referenced := map[world.Category]string{}
	names := map[string]bool{}

	for _, pass := range p.Passes {
		if pass.Name == "" || names[pass.Name] {
			return fmt.Errorf("%w: pass name %q empty or duplicated", ErrInvalidPlan, pass.Name)
		}
		names[pass.Name] = true
		if !pass.Category.Valid() {
			return fmt.Errorf("%w: pass %q: unknown category %q", ErrInvalidPlan, pass.Name, pass.Category)
		}

		switch pass.Kind {
		case PassNodes:
			if by, ok := referenced[pass.Category]; ok {
				return fmt.Errorf("%w: node pass %q runs after link pass %q referencing %s",
					ErrPlanOrder, pass.Name, by, pass.Category)
			}
			written[pass.Category] = true
		case PassLinks:
			if len(pass.Relations) == 0 {
				return fmt.Errorf("%w: link pass %q has no relations", ErrInvalidPlan, pass.Name)
			}
			for _, r := range pass.Relations {
				if r.Source != pass.Category {
					return fmt.Errorf("%w: link pass %q: relation %s is sourced from %s",
						ErrInvalidPlan, pass.Name, r.Type, r.Source)
				}
			}
			for _, c := range pass.References() {
				if !written[c] {
					return fmt.Errorf("%w: link pass %q references %s before its node pass",
						ErrPlanOrder, pass.Name, c)
				}
				if _, ok := referenced[c]; !ok {
					referenced[c] = pass.Name
				}
			}
		default:
			return fmt.Errorf("%w: pass %q: unknown kind %q", ErrInvalidPlan, pass.Name, pass.Kind)
		}
	}
	return nil
}

type PlanOptions struct {
	// DeriveToolUsage adds the USES pass built from character hobbies.
	DeriveToolUsage bool
}

// DefaultPlan upserts every category, then links them.
func DefaultPlan(opts PlanOptions) Plan {
	var passes []Pass
	for _, c := range world.Categories {
		passes = append(passes, NodePass(c))
	}
	for _, c := range []world.Category{
		world.CategoryCharacters,
		world.CategoryTools,
	} {
		passes = append(passes, LinkPass(c))
	}
	if opts.DeriveToolUsage {
		uses, _ := world.LookupRelation(world.RelUses)
		passes = append(passes, Pass{
			Name:      "links:tool_usage",
			Kind:      PassLinks,
			Category:  world.CategoryCharacters,
			Relations: []world.Relation{uses},
		})
	}
	for _, c := range []world.Category{
		world.CategoryCities,
		world.CategoryCountries,
		world.CategoryCitizenTypes,
	} {
		passes = append(passes, LinkPass(c))
	}
	return Plan{Passes: passes}
}

func NodePass(c world.Category) Pass {
	return Pass{Name: "nodes:" + string(c), Kind: PassNodes, Category: c}
}

// LinkPass covers every declared relation sourced from c.
func LinkPass(c world.Category) Pass {
	return Pass{Name: "links:" + string(c), Kind: PassLinks, Category: c, Relations: world.DeclaredRelations(c)}
}
