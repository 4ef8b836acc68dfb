package evaluator

// Stringify renders a value for print and string concatenation: strings come
// out raw, numbers drop a trailing .0, everything else uses its display form.
func Stringify(obj Object) string {
	if obj == nil {
		return "nil"
	}
	return obj.Inspect()
}
