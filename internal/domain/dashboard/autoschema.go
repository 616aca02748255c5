package dashboard

import (
	"strings"
	"unicode"

	"marketops/internal/metadata"
)

// SchemaFromEntity derives a data source schema from an entity definition.
// Derived schemas are listable and validatable; they stay non-executable
// until a dedicated query mapping exists for them.
//
// Read-only fields (id, audit timestamps) and table parts are skipped:
// they are storage concerns, not reportable dimensions or measures.
func SchemaFromEntity(def metadata.EntityDef, reg *metadata.Registry) *DataSourceSchema {
	schema := &DataSourceSchema{
		ID:        "auto_" + snakeCase(def.Name),
		Name:      entityLabel(def),
		TableName: entityTable(def),
	}

	for _, f := range def.Fields {
		if f.ReadOnly {
			continue
		}

		column := snakeCase(f.Name)
		field := FieldDef{
			ID:       column,
			Name:     fieldLabel(f),
			DBColumn: column,
		}

		switch f.Type {
		case metadata.TypeDate:
			field.Type = FieldDate
			field.CanGroup = true
		case metadata.TypeInteger:
			field.Type = FieldInteger
			field.CanAggregate = true
		case metadata.TypeNumber, metadata.TypeMoney:
			field.Type = FieldNumeric
			field.CanAggregate = true
		case metadata.TypeReference:
			field.Type = FieldText
			field.CanGroup = true
			if ref, ok := resolveReference(reg, f.ReferenceType); ok {
				field.RefTable = entityTable(ref)
				field.RefDisplayColumn = "description"
			}
		default:
			// Strings, enums and booleans group as text dimensions.
			field.Type = FieldText
			field.CanGroup = true
		}

		schema.Fields = append(schema.Fields, field)
	}

	return schema
}

// SchemasFromRegistry derives schemas for every registered entity.
func SchemasFromRegistry(reg *metadata.Registry) []*DataSourceSchema {
	defs := reg.List()
	schemas := make([]*DataSourceSchema, 0, len(defs))
	for _, def := range defs {
		schemas = append(schemas, SchemaFromEntity(def, reg))
	}
	return schemas
}

func resolveReference(reg *metadata.Registry, refType string) (metadata.EntityDef, bool) {
	if reg == nil || refType == "" {
		return metadata.EntityDef{}, false
	}
	for _, def := range reg.List() {
		if strings.EqualFold(def.Name, refType) {
			return def, true
		}
	}
	return metadata.EntityDef{}, false
}

func entityLabel(def metadata.EntityDef) string {
	if def.Label != "" {
		return def.Label
	}
	return def.Name
}

func fieldLabel(f metadata.FieldDef) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// entityTable falls back to the 1C-style prefix convention when the entity
// does not carry an explicit table name.
func entityTable(def metadata.EntityDef) string {
	if def.TableName != "" {
		return def.TableName
	}
	prefix := "cat_"
	if def.Type == metadata.TypeDocument {
		prefix = "doc_"
	}
	return prefix + snakeCase(def.Name)
}

// snakeCase converts camelCase identifiers to snake_case, keeping acronym
// runs together: organizationID -> organization_id.
func snakeCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
