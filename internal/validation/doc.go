// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct metadata so
// repeated form validation does no reflection work after the first call.
//
// Field errors are translated into short messages keyed by the form field name,
// which the web templates render next to the offending input:
//
//	form := validation.EditForm{Rating: r.PostFormValue("rating"), Review: r.PostFormValue("review")}
//	if err := validation.ValidateStruct(&form); err != nil {
//	    data.Errors = err.Fields()
//	    // redisplay the form
//	}
package validation
