package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {"name": {"type": "string"}}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMenuRecordSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(MenuRecordSchema()), &v))
	assert.Equal(t, "object", v["type"])
}

func TestValidateMenuRecord_Valid(t *testing.T) {
	doc := `{"월요일": {"본관1식당": {"아침": "", "점심": "김치찌개, 밥 (500kcal)", "저녁": ""}}}`
	assert.NoError(t, ValidateMenuRecord([]byte(doc)))
}

func TestValidateMenuRecord_MissingMealKey(t *testing.T) {
	doc := `{"월요일": {"본관1식당": {"아침": "", "점심": ""}}}`

	err := ValidateMenuRecord([]byte(doc))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, err.Error(), "저녁")
}

func TestValidateMenuRecord_NonStringMeal(t *testing.T) {
	doc := `{"월요일": {"본관1식당": {"아침": null, "점심": "", "저녁": ""}}}`

	err := ValidateMenuRecord([]byte(doc))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateMenuRecord_Empty(t *testing.T) {
	assert.Error(t, ValidateMenuRecord([]byte(`{}`)))
}

func TestValidateJSON_File(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", simpleSchema)

	valid := writeFile(t, "valid.json", `{"name": "menu"}`)
	assert.NoError(t, ValidateJSON(schemaPath, valid))

	invalid := writeFile(t, "invalid.json", `{"name": 3}`)
	err := ValidateJSON(schemaPath, invalid)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	schemaPath := writeFile(t, "schema.json", simpleSchema)

	err := ValidateJSON(filepath.Join(t.TempDir(), "missing.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(schemaPath, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	assert.Contains(t, err.Error(), "1. a: bad")
}
