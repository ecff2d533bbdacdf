package rdfc

import "strconv"

const (
	canonicalPrefix = "c14n"
	temporaryPrefix = "b"
)

// issuer allocates sequential blank node identifiers and remembers them.
//
// Issuers are copied on branch: trial exploration works on a clone and the
// clone is merged back only once its assignment is chosen. An issuer is not
// safe for concurrent mutation; concurrent readers are fine while no goroutine
// issues.
type issuer struct {
	prefix  string
	counter int
	issued  map[string]string
	order   []string // original labels in issue order
}

func newIssuer(prefix string) *issuer {
	return &issuer{prefix: prefix, issued: make(map[string]string)}
}

// issue returns the identifier for label, allocating the next one if needed.
func (i *issuer) issue(label string) string {
	if id, ok := i.issued[label]; ok {
		return id
	}
	id := i.prefix + strconv.Itoa(i.counter)
	i.counter++
	i.issued[label] = id
	i.order = append(i.order, label)
	return id
}

func (i *issuer) has(label string) bool {
	_, ok := i.issued[label]
	return ok
}

func (i *issuer) lookup(label string) (string, bool) {
	id, ok := i.issued[label]
	return id, ok
}

// clone returns an independent copy.
func (i *issuer) clone() *issuer {
	c := &issuer{
		prefix:  i.prefix,
		counter: i.counter,
		issued:  make(map[string]string, len(i.issued)),
		order:   make([]string, len(i.order), len(i.order)+4),
	}
	for k, v := range i.issued {
		c.issued[k] = v
	}
	copy(c.order, i.order)
	return c
}

// merge issues, in trial commitment order, an identifier for every label the
// trial issuer assigned. Labels already issued keep their identifier.
func (i *issuer) merge(trial *issuer) {
	for _, label := range trial.order {
		i.issue(label)
	}
}

// issuedOrder returns the original labels in the order they were issued.
func (i *issuer) issuedOrder() []string {
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}

// mapping returns a copy of the original label to identifier map.
func (i *issuer) mapping() map[string]string {
	out := make(map[string]string, len(i.issued))
	for k, v := range i.issued {
		out[k] = v
	}
	return out
}

func (i *issuer) size() int { return len(i.order) }
