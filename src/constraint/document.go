package constraint

// IDKey is the reserved identifier key of a data document. It is never
// encoded or decoded.
const IDKey = "_id"

// SetKey wraps the attributes of a patch that must be set explicitly.
const SetKey = "$set"

// DataDocument is a flat attribute-id to value map.
type DataDocument map[string]interface{}

// ID returns the document identifier, empty when missing.
func (d DataDocument) ID() string {
	id, _ := d[IDKey].(string)
	return id
}

// Copy returns a shallow copy of the document.
func (d DataDocument) Copy() DataDocument {
	c := make(DataDocument, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// ApplyPatch returns a copy of doc with the patch applied. A patch is either
// a plain {attr: value} map or a {"$set": {attr: value}} envelope; both forms
// may be mixed. A nil patch returns doc unchanged.
func ApplyPatch(doc, patch DataDocument) DataDocument {
	if patch == nil {
		return doc
	}
	result := doc.Copy()
	for k, v := range patch {
		if k == SetKey {
			for attr, value := range setValues(v) {
				result[attr] = value
			}
			continue
		}
		result[k] = v
	}
	return result
}

func setValues(v interface{}) map[string]interface{} {
	switch s := v.(type) {
	case DataDocument:
		return s
	case map[string]interface{}:
		return s
	}
	return nil
}
