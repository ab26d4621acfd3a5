package engine

// Catalogue maps a node's type tag to the constructor that builds it. The
// engine package never registers concrete node types itself — that would
// import the node implementations and create a cycle, since those packages
// import engine for the Node interface and Base helper. Callers assemble a
// Catalogue once at startup, typically with a node package's own RegisterAll
// helper, and hand it to NewAuthority.
type Catalogue struct {
	constructors map[string]func(id string) Node
}

// NewCatalogue returns an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{constructors: make(map[string]func(id string) Node)}
}

// Register binds a type tag to a constructor. Re-registering a tag replaces
// the prior constructor.
func (c *Catalogue) Register(typeTag string, constructor func(id string) Node) {
	c.constructors[typeTag] = constructor
}

// Build instantiates a node of the given type, or reports ok=false if the
// tag is unknown.
func (c *Catalogue) Build(id, typeTag string) (Node, bool) {
	ctor, ok := c.constructors[typeTag]
	if !ok {
		return nil, false
	}
	return ctor(id), true
}

// Known reports whether typeTag has a registered constructor.
func (c *Catalogue) Known(typeTag string) bool {
	_, ok := c.constructors[typeTag]
	return ok
}
