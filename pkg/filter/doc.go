// Package filter parses the expressions accepted by "list --filter" and
// evaluates them against entries.
//
// Grammar
//
// --- PARSER RULES ---
//
//	expression  : term ( "or" term )* ;
//	term        : factor ( "and" factor )* ;
//
//	factor      : equality
//	            | "(" expression ")" ;
//
//	// Regex gets its own distinct rule based on the operator used
//	equality    : IDENTIFIER ( "=" | "!=" | "<" | "<=" | ">" | ">=" ) STRING
//	            | IDENTIFIER ( "~" | "!~" ) REGEX_LITERAL ;
//
// --- LEXER RULES ---
//
//	IDENTIFIER    : "site" | "username" ;   // case-insensitive
//
//	// AWK-style regex: /pattern/, "\/" escapes a slash
//	REGEX_LITERAL : '/' ( '\\/' | . )*? '/' ;
//
//	STRING        : "'" (.*?) "'" | "\"" (.*?) "\"" ;
//
// Examples:
//
//	site ~ /bank/
//	username = 'alice' and site !~ /^test\./
//	(site >= 'a' and site < 'n') or username = ''
//
// Comparisons are exact and byte-wise, like the store's key comparison.
// Evaluation happens in Go, so results do not depend on the storage driver.
package filter
