package catalog

import (
	"github.com/octohelm/queryfield/pkg/schema"
)

// Plan lists, per index, what an index construction engine has to do.
// Changed indexes carry their new record; the old one is in Replaced at the same position.
type Plan struct {
	Table     string
	Created   []IndexRecord
	Changed   []IndexRecord
	Replaced  []IndexRecord
	Unchanged []IndexRecord
	Dropped   []IndexRecord
}

func (p *Plan) IsNoop() bool {
	return len(p.Created) == 0 && len(p.Changed) == 0 && len(p.Dropped) == 0
}

func (c *Catalog) diff(prev *TableRecord, set *schema.DescriptorSet) (*Plan, *TableRecord, error) {
	plan := &Plan{Table: set.Type()}

	next := &TableRecord{
		Name:        set.Type(),
		Fingerprint: set.Fingerprint(),
	}

	if prev != nil {
		next.ID = prev.ID
	} else {
		tableID, err := c.newID()
		if err != nil {
			return nil, nil, err
		}
		next.ID = tableID
	}

	for _, d := range set.All() {
		r := indexRecordOf(d)

		if prev != nil {
			if old, ok := prev.Index(d.Kind(), d.Name()); ok {
				if old.Fingerprint == r.Fingerprint {
					r.ID = old.ID
					plan.Unchanged = append(plan.Unchanged, r)
					next.Indexes = append(next.Indexes, r)
					continue
				}

				indexID, err := c.newID()
				if err != nil {
					return nil, nil, err
				}
				r.ID = indexID
				plan.Changed = append(plan.Changed, r)
				plan.Replaced = append(plan.Replaced, *old)
				next.Indexes = append(next.Indexes, r)
				continue
			}
		}

		indexID, err := c.newID()
		if err != nil {
			return nil, nil, err
		}
		r.ID = indexID
		plan.Created = append(plan.Created, r)
		next.Indexes = append(next.Indexes, r)
	}

	if prev != nil {
		for _, old := range prev.Indexes {
			if _, ok := next.Index(old.Kind, old.Name); !ok {
				plan.Dropped = append(plan.Dropped, old)
			}
		}
	}

	return plan, next, nil
}
