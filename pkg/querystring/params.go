package querystring

// undefinedValue marks a key whose value must not be serialized.
type undefinedValue struct{}

// Undefined is stored for keys that should be skipped by Encode. It differs
// from nil, which is serialized as an empty value.
var Undefined = undefinedValue{}

// Params is an insertion-ordered parameter set. The zero value is ready to use.
type Params struct {
	keys   []string
	values map[string]any
}

func New() *Params {
	return &Params{values: map[string]any{}}
}

// Of builds a Params from alternating key/value arguments. A trailing key
// without a value is ignored.
func Of(pairs ...any) *Params {
	p := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		p.Set(key, pairs[i+1])
	}
	return p
}

// Set stores value under key. Overwriting keeps the key's original position.
func (p *Params) Set(key string, value any) *Params {
	if p.values == nil {
		p.values = map[string]any{}
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

func (p *Params) Get(key string) (any, bool) {
	if p == nil || p.values == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

func (p *Params) Delete(key string) {
	if p == nil || p.values == nil {
		return
	}
	if _, exists := p.values[key]; !exists {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Merge copies every entry of other into p, later values winning. Keys that
// already exist keep their position, new keys are appended.
func (p *Params) Merge(other *Params) *Params {
	if other == nil {
		return p
	}
	for _, k := range other.keys {
		p.Set(k, other.values[k])
	}
	return p
}

// Clone returns a shallow copy; nested values are shared.
func (p *Params) Clone() *Params {
	out := New()
	return out.Merge(p)
}
