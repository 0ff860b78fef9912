package models

import "github.com/go-playground/validator/v10"

// Validate checks request structs against their `validate` tags
var Validate = validator.New()
