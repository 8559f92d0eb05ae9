package req

// Kind tags which variant a Body holds.
type Kind int

const (
	// KindEmpty is a Body holding no usable value,
	// e.g., after its parser failed.
	KindEmpty Kind = iota

	// KindRaw is a Body holding the bytes exactly as received.
	KindRaw

	// KindForm is a Body holding decoded key/value pairs.
	KindForm

	// KindDocument is a Body holding a decoded structured document,
	// such as JSON or XML.
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindForm:
		return "form"
	case KindDocument:
		return "document"
	default:
		return "empty"
	}
}

// A Body is a request body after content negotiation.
// Switch on Kind to learn which accessor carries the value.
type Body struct {
	kind Kind
	raw  []byte
	form map[string]string
	doc  any
}

// EmptyBody constructs a Body of KindEmpty.
func EmptyBody() Body { return Body{} }

// RawBody constructs a Body of KindRaw.
func RawBody(b []byte) Body { return Body{kind: KindRaw, raw: b} }

// FormBody constructs a Body of KindForm.
func FormBody(form map[string]string) Body { return Body{kind: KindForm, form: form} }

// DocumentBody constructs a Body of KindDocument.
func DocumentBody(doc any) Body { return Body{kind: KindDocument, doc: doc} }

// Kind returns which variant b holds.
func (b Body) Kind() Kind { return b.kind }

// Bytes returns the raw bytes of a KindRaw Body and nil otherwise.
func (b Body) Bytes() []byte {
	if b.kind != KindRaw {
		return nil
	}

	return b.raw
}

// Form returns the pairs of a KindForm Body.
// Any other Body returns an empty map.
func (b Body) Form() map[string]string {
	if b.kind != KindForm || b.form == nil {
		return map[string]string{}
	}

	return b.form
}

// Document returns the decoded document of a KindDocument Body and nil otherwise.
func (b Body) Document() any {
	if b.kind != KindDocument {
		return nil
	}

	return b.doc
}

// Map returns b as a map of keys to values
// when b holds a form or a document that is an object.
// Any other Body returns an empty map.
func (b Body) Map() map[string]any {
	switch b.kind {
	case KindForm:
		m := make(map[string]any, len(b.form))
		for k, v := range b.form {
			m[k] = v
		}
		return m
	case KindDocument:
		if m, ok := b.doc.(map[string]any); ok {
			return m
		}
	}

	return map[string]any{}
}
