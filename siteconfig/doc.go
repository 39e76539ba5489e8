// Package siteconfig turns a declarative YAML site description into a populated site.Site.
//
// A description names access points and says how to build each of them:
//
//	access_points:
//	  things:
//	    kind: memory
//	    properties:
//	      id: {type: int}
//	      name: {type: string}
//	    identity: [id]
//	    rows:
//	      - {id: 1, name: foo}
//	  aliased:
//	    kind: aliases
//	    underlying: things
//	    aliases:
//	      nom: name
//
// Three kinds exist: "memory" (rows are loaded at build time), "postgres" (a table, opened through
// the factory given with WithPostgres) and "aliases" (a view over another access point of the
// same description). Property names are kept exactly as written.
package siteconfig
