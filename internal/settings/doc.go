// Package settings defines the typed schema of the Studio environment
// document and the operations on it: loading from JSON or YAML, structural
// validation (including detection of unresolved deployment placeholders),
// and an explicit override-merge step for deployment tooling. A loaded
// Document is an immutable snapshot; configuration changes are made by
// replacing the document wholesale.
package settings
