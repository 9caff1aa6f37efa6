package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func TestValidateFile(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	tests := []struct {
		name       string
		schema     string
		doc        string
		wantFields []string
		wantLoad   bool
		wantErr    string
	}{
		{name: "valid", schema: testdata("valid_schema.json"), doc: testdata("valid_json.json")},
		{name: "missing field", schema: testdata("valid_schema.json"), doc: testdata("invalid_json.json"), wantFields: []string{"(root)"}},
		{name: "wrong types", schema: testdata("valid_schema.json"), doc: testdata("type_mismatch.json"), wantFields: []string{"title", "skills"}},
		{name: "missing schema", schema: testdata("nonexistent_schema.json"), doc: testdata("valid_json.json"), wantLoad: true},
		{name: "schema is not json", schema: malformed, doc: testdata("valid_json.json"), wantLoad: true},
		{name: "missing document", schema: testdata("valid_schema.json"), doc: testdata("nonexistent.json"), wantErr: "failed to read JSON file"},
		{name: "malformed document", schema: testdata("valid_schema.json"), doc: malformed, wantErr: "failed to read document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.schema, tt.doc)

			switch {
			case tt.wantFields != nil:
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.schema, verr.Schema)
				var fields []string
				for _, fe := range verr.Errors {
					fields = append(fields, fe.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, fields)
			case tt.wantLoad:
				var lerr *LoadError
				require.ErrorAs(t, err, &lerr)
				assert.Equal(t, tt.schema, lerr.Schema)
			case tt.wantErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFile_RulesAndNestedPaths(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{
		"type": "object",
		"properties": {
			"person": {"type": "object", "required": ["name"]},
			"items": {"type": "array", "items": {"type": "string"}, "minItems": 1}
		}
	}`), 0644))
	doc := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"person": {}, "items": []}`), 0644))

	var verr *ValidationError
	require.ErrorAs(t, ValidateFile(schema, doc), &verr)
	require.Len(t, verr.Errors, 2)

	rules := map[string]string{}
	for _, fe := range verr.Errors {
		rules[fe.Field] = fe.Rule
	}
	assert.Equal(t, map[string]string{"person": "required", "items": "array_min_items"}, rules)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "profile.schema.json",
		Errors: []FieldError{
			{Field: "name", Message: "name is required"},
			{Field: "age", Message: "Invalid type. Expected: integer, given: string"},
		},
	}

	assert.Equal(t, "validation failed against profile.schema.json (2 errors):\n"+
		"  - name: name is required\n"+
		"  - age: Invalid type. Expected: integer, given: string\n", err.Error())
}
