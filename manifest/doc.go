// Package manifest loads command metadata from HCL files, so help text and
// optional-parameter defaults can live beside deployment configuration
// instead of in code.
//
// A manifest declares one or more command blocks:
//
//	command "add" {
//	  summary     = "Add two numbers."
//	  description = "Returns the sum of num1 and num2."
//
//	  arg "num1" { description = "first addend" }
//	  arg "precision" {
//	    type        = number
//	    default     = 2
//	    description = "digits kept after the point"
//	  }
//	}
//
// Apply seeds a tool from a command definition; values set explicitly in
// code always take precedence over manifest values, the same precedence rule
// used for parsed doc comments.
package manifest
