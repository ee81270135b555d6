// Package render formats rule files, compiled trees and diagnostics as
// text tables for the explain output of the command line tool.
package render
