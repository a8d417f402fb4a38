// Package prompt asks the user for template data. Questions are read line by
// line from an io.Reader so that answers can be scripted; fields that already
// have a value in the data context are skipped and listed instead.
package prompt
