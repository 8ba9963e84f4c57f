package github

import "github.com/getkin/kin-openapi/openapi3"

// Response schemas pin the minimal shape each handler actually consumes.
// They deliberately leave extra vendor fields unconstrained; drift on a field
// we read is a contract break, drift elsewhere is noise.

func searchRepositoriesSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("total_count", openapi3.NewIntegerSchema()).
		WithProperty("items", arrayOf(openapi3.NewObjectSchema().
			WithProperty("full_name", openapi3.NewStringSchema())))
	s.Required = []string{"total_count", "items"}
	return s
}

func refSchema() *openapi3.Schema {
	object := openapi3.NewObjectSchema().
		WithProperty("sha", openapi3.NewStringSchema())
	object.Required = []string{"sha"}

	s := openapi3.NewObjectSchema().
		WithProperty("ref", openapi3.NewStringSchema()).
		WithProperty("object", object)
	s.Required = []string{"object"}
	return s
}

func treeSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("sha", openapi3.NewStringSchema())
	s.Required = []string{"sha"}
	return s
}

func commitSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("sha", openapi3.NewStringSchema())
	s.Required = []string{"sha"}
	return s
}

func contentWriteSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("content", openapi3.NewSchema()).
		WithProperty("commit", openapi3.NewObjectSchema().
			WithProperty("sha", openapi3.NewStringSchema()))
	s.Required = []string{"commit"}
	return s
}

func arrayOf(item *openapi3.Schema) *openapi3.Schema {
	arr := openapi3.NewArraySchema()
	arr.Items = openapi3.NewSchemaRef("", item)
	return arr
}
