// Package hcp reads INI-style configuration files that can pull values in
// from other files with an INCLUDE directive.
//
// # Usage
//
//	cfg, err := hcp.Read("/etc/myapp/config.ini")
//	if err != nil {
//	    return err
//	}
//	host, ok := cfg.Get("database", "host")
//	from, _ := cfg.Explain("database", "host") // file that supplied host
//
// For isolated caches (e.g. in tests) build a Loader:
//
//	loader := &hcp.Loader{FS: hcp.OSFS{}, Cache: hcp.NewCache()}
//	cfg, err := loader.Read(path)
//
// # File Format
//
//	; comment
//	[default]
//	include = common.ini        ; applies to every section
//
//	[database]:
//	include = db-defaults.ini   ; applies to [database] only
//	host = db.example.com
//
// Section and option names are case-insensitive. Values may be quoted with
// matching ' or " characters. Relative include paths are relative to the
// directory of the file that declares them.
//
// # Precedence
//
//  1. Options a file defines directly always win.
//  2. A section's own INCLUDE wins over an INCLUDE in [default].
//  3. Options of [default] are visible in every section that does not
//     define them.
//
// An INCLUDE in [default] also adds every section of the included file
// that the including file lacks. An INCLUDE inside a section only reads
// that section (and [default]) from the included file.
//
// # Errors
//
// Read returns a *ReadError wrapping one of *FileNotFoundError,
// *IncludeTargetNotFoundError, *DuplicateSectionError or, when validation
// is enabled, *ValidationError values. Use errors.Is with ErrFileNotFound,
// ErrIncludeNotFound, ErrDuplicateSection and ErrValidation to tell them
// apart. Lines that are not sections, options or includes are kept as-is
// and never cause an error.
//
// # Caching
//
// Resolved files are cached by absolute path for the life of the Cache.
// Nothing is invalidated automatically; call ClearCache (or Cache.Clear)
// after editing files a long-running process has already read.
package hcp
