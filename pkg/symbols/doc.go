/*
Package symbols interns the names used by a planning model and answers type
membership questions over them.

It is the leaf of the planner: the domain model, the grounder and the search
core all refer to objects and types through the dense IDs handed out here.

# Key Entities

  - Table: a bidirectional string <-> ID interning table.
  - Hierarchy: declared types with their is-a closure, rooted at an implicit type.
  - Universe: typed objects indexed by every type they belong to.
*/
package symbols
