// Package harness runs sync conformance scenarios.
//
// A scenario feeds legacy records to a real Synchroniser through a fake
// central server, optionally writes local changes and syncs again, then
// checks what was pushed and what ended up in storage.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	mock: true            # seed mock central rows and site 1
//	site_id: 3            # site reported by the server when mock is off
//	pull:
//	  - table_name: list_master
//	    record_id: program_test
//	    data: { ID: program_test, isProgram: true, ... }
//	local:
//	  - table_name: Location
//	    record_id: loc_1
//	    data: { ID: loc_1, store_ID: store_a }
//	snapshot: [program, location]
//	assertions:
//	  - type: final_state
//	    table: program
//	    where: { id: program_test }
//	    expect: { name: program_test }
//	  - type: push_contains
//	    table_name: Location
//	    record_id: loc_1
//
// # Assertion Types
//
//   - final_state: Finds exactly one row and verifies expected values
//   - row_count: Verifies a table holds exactly N rows
//   - push_contains: Verifies a record was pushed, optionally with payload fields
//   - push_count: Verifies exactly N records were pushed
//   - sync_error: Verifies a run failed with the given error code
//
// # Deterministic Testing
//
// Runs use testutil.DeterministicClock and sequential run ids, and every
// scenario gets a fresh database, so snapshots are identical across runs
// and can be compared with golden files in testdata/golden.
package harness
