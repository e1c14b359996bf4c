/*
Package document defines the textual model format read by the loaders.

A bundle holds a domain and a problem. Declarations use compact strings in
the style of typed lists:

	domain:
	  name: intersection
	  types: ["car - agent", "loc direction"]
	  predicates: ["at ?a - car ?l - loc", "free ?l - loc"]
	  actions:
	    - name: drive
	      parameters: "?a - car ?l1 ?l2 - loc ?d - direction"
	      precondition: ["at ?a ?l1", "free ?l2"]
	      effect: ["at ?a ?l2", "not at ?a ?l1"]
	problem:
	  name: crossing
	  domain: intersection
	  objects: ["a1 - car", "south-ent north-ex - loc"]
	  init: ["free north-ex"]
	  goal: ["at a1 north-ex"]

A literal prefixed by "not" is negative. Parentheses are accepted and
ignored, so "(not (free ?l2))" reads the same as "not free ?l2".
*/
package document
