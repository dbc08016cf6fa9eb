// Package workbook holds the in-memory sheet model passed between pipeline
// stages and reads and writes it as .xlsx files.
package workbook
