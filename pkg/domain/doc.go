/*
Package domain contains the core types of the cascade engine.

It is kept free of I/O and of any dependency on the runtime, so adapters and
presentation layers can share the vocabulary without pulling in the engine.

# Key Entities

  - Status: a symbolic tag from a closed set (lifecycle, outcome and user category tags).
  - Entity: a named unit holding exactly one Status, with change observers.
  - Rule: a condition-action pair. Two variants exist, Link (single source) and Merge
    (all sources must hold the same status).
  - LifecycleHooks: callbacks the engine invokes for every cascade, transition and rule firing.
*/
package domain
