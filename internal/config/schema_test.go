package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SchemaTestSuite struct {
	suite.Suite
}

func TestSchemaSuite(t *testing.T) {
	suite.Run(t, new(SchemaTestSuite))
}

func (suite *SchemaTestSuite) TestGenerateSchema() {
	schema, err := Default().GenerateSchema()
	suite.Require().NoError(err)

	suite.Equal("macro-allocation-config", schema.Title)
	suite.NotEmpty(schema.Description)
}

func (suite *SchemaTestSuite) TestGenerateSchemaJSON() {
	schemaJSON, err := Default().GenerateSchemaJSON()
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schemaJSON), &decoded))

	suite.Equal("macro-allocation-config", decoded["title"])

	properties, ok := decoded["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "version")
	suite.Contains(properties, "scoring_weights")
	suite.Contains(properties, "allocation")
}
