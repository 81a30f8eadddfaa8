package aggregation

import (
	"log/slog"
	"sort"

	"github.com/aevon-lab/salesboard/internal/core/record"
)

// Dimension describes one cross-tab maintained by a grouping pass.
//
// Key extracts the bucket key from a record; returning false keeps the record
// out of this dimension (and all of its sub-dimensions). Update names the
// bucket updater; empty inherits the parent's, and a root defaults to sales.
// PreFilter roots see every record, including those rejected by the purpose
// filter, so selection widgets can always offer the full value domain.
type Dimension struct {
	Name      string
	Key       func(f *record.Fields) (string, bool)
	Update    string
	PreFilter bool
	Sub       []Dimension
}

type compiledDimension struct {
	name      string
	key       func(f *record.Fields) (string, bool)
	upd       Updater
	preFilter bool
	subs      []compiledDimension
}

func compileDimensions(dims []Dimension, inherited Updater) []compiledDimension {
	out := make([]compiledDimension, 0, len(dims))
	for _, d := range dims {
		upd := inherited
		if d.Update != "" {
			u, ok := Updaters[d.Update]
			if !ok {
				slog.Warn("[Grouping] Skip dimension with unknown updater", "dimension", d.Name, "updater", d.Update)
				continue
			}
			upd = u
		}
		out = append(out, compiledDimension{
			name:      d.Name,
			key:       d.Key,
			upd:       upd,
			preFilter: d.PreFilter,
			subs:      compileDimensions(d.Sub, upd),
		})
	}
	return out
}

// Node is one bucket in a grouping tree, with its nested sub-levels.
type Node struct {
	Key string
	Bucket
	subs map[string]*Level
}

// Sub returns the nested level for a sub-dimension (empty if never touched).
func (n *Node) Sub(name string) *Level {
	if n == nil {
		return nil
	}
	return n.subs[name]
}

func (n *Node) subLevel(name string) *Level {
	if n.subs == nil {
		n.subs = make(map[string]*Level)
	}
	l, ok := n.subs[name]
	if !ok {
		l = newLevel()
		n.subs[name] = l
	}
	return l
}

// Level is a set of sibling buckets: hash-indexed for O(1) updates and
// remembering first-seen order so stable sorts keep ties in insertion order.
type Level struct {
	index map[string]*Node
	order []*Node
}

func newLevel() *Level {
	return &Level{index: make(map[string]*Node)}
}

func (l *Level) node(key string) *Node {
	if n, ok := l.index[key]; ok {
		return n
	}
	n := &Node{Key: key}
	l.index[key] = n
	l.order = append(l.order, n)
	return n
}

// Len is the number of distinct keys.
func (l *Level) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// Lookup returns the bucket for key, or nil.
func (l *Level) Lookup(key string) *Node {
	if l == nil {
		return nil
	}
	return l.index[key]
}

// Keys returns every key in first-seen order.
func (l *Level) Keys() []string {
	if l == nil {
		return nil
	}
	keys := make([]string, len(l.order))
	for i, n := range l.order {
		keys[i] = n.Key
	}
	return keys
}

// Order compares two nodes; it must be a strict "a ranks before b".
type Order func(a, b *Node) bool

// Ranking orders used by the summary views.
var (
	BySales    Order = func(a, b *Node) bool { return a.Sales.GreaterThan(b.Sales) }
	ByCount    Order = func(a, b *Node) bool { return a.Count > b.Count }
	ByAvgPrice Order = func(a, b *Node) bool { return a.AvgPrice().GreaterThan(b.AvgPrice()) }
	ByKey      Order = func(a, b *Node) bool { return a.Key < b.Key }
)

// Ranked returns the nodes stably sorted by order, capped at limit
// (limit <= 0 returns all). The level itself is not reordered.
func (l *Level) Ranked(order Order, limit int) []*Node {
	if l == nil {
		return nil
	}
	nodes := make([]*Node, len(l.order))
	copy(nodes, l.order)
	sort.SliceStable(nodes, func(i, j int) bool { return order(nodes[i], nodes[j]) })
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes
}

// Grouping runs many dimensions over one record stream in a single pass.
// It is not safe for concurrent use; each pass builds its own.
type Grouping struct {
	dims  []compiledDimension
	roots map[string]*Level
}

// NewGrouping compiles dims into an empty grouping.
func NewGrouping(dims []Dimension) *Grouping {
	g := &Grouping{
		dims:  compileDimensions(dims, Updaters[UpdateSales]),
		roots: make(map[string]*Level, len(dims)),
	}
	for _, d := range g.dims {
		g.roots[d.name] = newLevel()
	}
	return g
}

// Observe folds one record into every dimension. passed is the purpose
// filter's verdict: when false only PreFilter dimensions are updated.
func (g *Grouping) Observe(f *record.Fields, passed bool) {
	for i := range g.dims {
		d := &g.dims[i]
		if !passed && !d.preFilter {
			continue
		}
		observe(g.roots[d.name], d, f)
	}
}

func observe(l *Level, d *compiledDimension, f *record.Fields) {
	key, ok := d.key(f)
	if !ok {
		return
	}
	n := l.node(key)
	d.upd.Apply(&n.Bucket, f)
	for i := range d.subs {
		sub := &d.subs[i]
		observe(n.subLevel(sub.name), sub, f)
	}
}

// Level returns the root level of a dimension (nil for unknown names).
func (g *Grouping) Level(name string) *Level {
	return g.roots[name]
}
