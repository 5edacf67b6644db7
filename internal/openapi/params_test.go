package openapi

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findOperation(t *testing.T, ops []Operation, name string) Operation {
	t.Helper()
	for _, op := range ops {
		if op.Name == name {
			return op
		}
	}
	t.Fatalf("operation %q not found", name)
	return Operation{}
}

func TestClassifyParameters_Petstore(t *testing.T) {
	spec, err := Load(filepath.Join("testdata", "petstore.yaml"))
	require.NoError(t, err)
	ops := Enumerate(spec)

	list := findOperation(t, ops, "listPets")
	assert.Equal(t, []Parameter{
		{Name: "limit", Location: LocationQuery, Type: "integer", Description: "Maximum number of results"},
		{Name: "status", Location: LocationQuery, Type: "string", Description: "Filter by status"},
	}, list.Parameters)

	add := findOperation(t, ops, "add_pet")
	assert.Equal(t, []Parameter{
		{Name: "name", Location: LocationBody, Required: true, Type: "string", Description: "Pet name"},
		{Name: "tag", Location: LocationBody, Type: "string"},
		{Name: "age", Location: LocationBody, Type: "integer", Description: "Age in years"},
	}, add.Parameters)

	get := findOperation(t, ops, "getPetById")
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, Parameter{Name: "petId", Location: LocationPath, Required: true, Type: "integer", Description: "ID of pet to return"}, get.Parameters[0])

	del := findOperation(t, ops, "delete_petspetId")
	require.Len(t, del.Parameters, 2)
	assert.Equal(t, LocationHeader, del.Parameters[1].Location)
	assert.Equal(t, "api-key", del.Parameters[1].Name)

	inv := findOperation(t, ops, "getInventory")
	assert.Empty(t, inv.Parameters)
}

func TestClassifyParameters_ExplicitBeforeBody(t *testing.T) {
	content := `
paths:
  /users/{id}:
    put:
      operationId: updateUser
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email]
              properties:
                email: {type: string}
                id: {type: integer}
      parameters:
        - name: id
          in: path
          required: true
          schema: {type: integer}
`
	ops := Enumerate(mustParse(t, content, "users.yaml"))
	require.Len(t, ops, 1)
	params := ops[0].Parameters
	require.Len(t, params, 3)

	assert.Equal(t, LocationPath, params[0].Location)
	assert.Equal(t, "id", params[0].Name)
	assert.Equal(t, Parameter{Name: "email", Location: LocationBody, Required: true, Type: "string"}, params[1])
	// Same name as the path parameter: both kept.
	assert.Equal(t, Parameter{Name: "id", Location: LocationBody, Type: "integer"}, params[2])
}

func TestClassifyParameters_UnresolvedRefKeepsStub(t *testing.T) {
	content := `
paths:
  /things:
    get:
      parameters:
        - $ref: '#/components/parameters/Missing'
`
	ops := Enumerate(mustParse(t, content, "missing.yaml"))
	require.Len(t, ops, 1)
	require.Len(t, ops[0].Parameters, 1)
	p := ops[0].Parameters[0]
	assert.Equal(t, "", p.Name)
	assert.Equal(t, Location(""), p.Location)
	assert.Equal(t, "string", p.Type)
}

func TestClassifyParameters_SwaggerShared(t *testing.T) {
	content := `{
	"swagger": "2.0",
	"parameters": {
		"PageSize": {"name": "page_size", "in": "query", "type": "integer"}
	},
	"paths": {
		"/orders": {
			"get": {
				"operationId": "listOrders",
				"parameters": [
					{"$ref": "#/parameters/PageSize"},
					{"name": "X-Trace", "in": "header", "type": "string", "required": true},
					{"name": "flag", "in": "query", "type": "boolean"}
				]
			}
		}
	}
}`
	ops := Enumerate(mustParse(t, content, "swagger.json"))
	require.Len(t, ops, 1)
	assert.Equal(t, []Parameter{
		{Name: "page_size", Location: LocationQuery, Type: "integer"},
		{Name: "X-Trace", Location: LocationHeader, Required: true, Type: "string"},
		{Name: "flag", Location: LocationQuery, Type: "boolean"},
	}, ops[0].Parameters)
}

func TestClassifyParameters_RequestBodyRef(t *testing.T) {
	content := `
paths:
  /orders:
    post:
      requestBody:
        $ref: '#/components/requestBodies/Order'
components:
  requestBodies:
    Order:
      content:
        application/json:
          schema:
            properties:
              sku: {type: string}
              qty: {$ref: '#/components/schemas/Quantity'}
  schemas:
    Quantity:
      type: integer
`
	ops := Enumerate(mustParse(t, content, "orders.yaml"))
	require.Len(t, ops, 1)
	assert.Equal(t, []Parameter{
		{Name: "sku", Location: LocationBody, Type: "string"},
		{Name: "qty", Location: LocationBody, Type: "integer"},
	}, ops[0].Parameters)
}

func TestClassifyParameters_VendorJSONMediaType(t *testing.T) {
	content := `
paths:
  /events:
    post:
      requestBody:
        content:
          text/plain:
            schema:
              type: string
          application/vnd.events+json; charset=utf-8:
            schema:
              properties:
                kind: {type: string}
`
	ops := Enumerate(mustParse(t, content, "events.yaml"))
	require.Len(t, ops, 1)
	require.Len(t, ops[0].Parameters, 1)
	assert.Equal(t, "kind", ops[0].Parameters[0].Name)
	assert.Equal(t, LocationBody, ops[0].Parameters[0].Location)
}

func TestClassifyParameters_NonJSONBodyIgnored(t *testing.T) {
	content := `
paths:
  /upload:
    post:
      requestBody:
        content:
          multipart/form-data:
            schema:
              properties:
                file: {type: string}
`
	ops := Enumerate(mustParse(t, content, "upload.yaml"))
	require.Len(t, ops, 1)
	assert.Empty(t, ops[0].Parameters)
}

func TestClassifyParameters_TypeArrays(t *testing.T) {
	content := `
openapi: 3.1.0
paths:
  /notes:
    post:
      parameters:
        - name: draft
          in: query
          schema:
            type: ["null", boolean]
      requestBody:
        content:
          application/json:
            schema:
              properties:
                body:
                  type: [string, "null"]
                untyped: {}
`
	ops := Enumerate(mustParse(t, content, "notes.yaml"))
	require.Len(t, ops, 1)
	assert.Equal(t, []Parameter{
		{Name: "draft", Location: LocationQuery, Type: "boolean"},
		{Name: "body", Location: LocationBody, Type: "string"},
		{Name: "untyped", Location: LocationBody, Type: "string"},
	}, ops[0].Parameters)
}

func TestClassifyParameters_BodyOnGetStillClassified(t *testing.T) {
	content := `
paths:
  /search:
    get:
      requestBody:
        content:
          application/json:
            schema:
              properties:
                q: {type: string}
`
	ops := Enumerate(mustParse(t, content, "search.yaml"))
	require.Len(t, ops, 1)
	require.Len(t, ops[0].Parameters, 1)
	assert.Equal(t, LocationBody, ops[0].Parameters[0].Location)
}

func TestClassifyParameters_NilOperation(t *testing.T) {
	assert.Nil(t, ClassifyParameters(nil, nil))
}

func TestClassifyParameters_TopLevelFallbackWithComponents(t *testing.T) {
	content := `
components:
  parameters:
    Limit:
      name: limit
      in: query
parameters:
  Trace:
    name: X-Trace
    in: header
paths:
  /things:
    get:
      parameters:
        - $ref: '#/components/parameters/Limit'
        - $ref: '#/parameters/Trace'
`
	ops := Enumerate(mustParse(t, content, "mixed.yaml"))
	require.Len(t, ops, 1)
	require.Len(t, ops[0].Parameters, 2)
	assert.Equal(t, "limit", ops[0].Parameters[0].Name)
	assert.Equal(t, Parameter{Name: "X-Trace", Location: LocationHeader, Type: "string"}, ops[0].Parameters[1])
}
