package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with mesh",
		Content: topicQuickstart,
	},
	{
		Name:    "roles",
		Title:   "Pipeline Roles",
		Summary: "The six roles and the dependency graph between them",
		Content: topicRoles,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "notifications",
		Title:   "Notifications",
		Summary: "How roles find out about upstream work",
		Content: topicNotifications,
	},
	{
		Name:    "recovery",
		Title:   "Response Recovery",
		Summary: "Truncation detection and continuation requests",
		Content: topicRecovery,
	},
	{
		Name:    "artifacts",
		Title:   "Project Artifacts",
		Summary: "Structure of .mesh/projects/ and what gets saved",
		Content: topicArtifacts,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-project
    mesh init

   This creates .mesh/config.yaml and a starter brief.

2. Edit .mesh/config.yaml to point at your generation endpoint and
   name the project.

3. Start all six roles:

    mesh serve --all

   Or run a single role in the foreground:

    mesh serve architecture

4. Seed the pipeline with a brief:

    mesh notify business --brief .mesh/brief.md

   The business role produces requirements, architecture picks them
   up, and the rest of the pipeline follows the dependency graph.

5. Watch progress:

    mesh status

CLI Commands
------------

  mesh init                    Scaffold the .mesh/ directory
  mesh serve <role>            Run one role in the foreground
  mesh serve --all             Run every role in one process
  mesh status                  Show every role's state and reachability
  mesh notify <role>           Push a notification to a role
  mesh graph                   Print the dependency graph
  mesh doctor                  Diagnose configuration and stuck roles
  mesh docs [topic]            Show documentation
`

const topicRoles = `Pipeline Roles
==============

mesh runs six roles, each a long-lived service with its own port and
output directory:

  business        turns a product brief into requirements
  architecture    turns requirements into a system design
  developer       turns a design into source files
  qa              writes a test plan against the implementation
  audit           reviews implementation and test plan for risk
  documentation   writes end-user docs from everything upstream

Dependency Graph
----------------

  business        (no upstreams; seeded manually)
  architecture    <- business
  developer       <- architecture
  qa              <- developer
  audit           <- developer, qa
  documentation   <- business, architecture, developer, qa, audit

A role only reacts to notifications from its upstreams. Anything else
is dropped at the door. A role also accepts notifications from itself,
which is how manual seeding works: 'mesh notify business' sends a
business-sourced notification to the business role.

Output Modes
------------

business, architecture, qa, and audit produce a JSON document.
developer and documentation produce a file manifest: the response
lists files as

  ### File: path/to/file.ext

followed by the file's content, and each file is written into the
role's output directory.
`

const topicConfig = `Configuration Reference
=======================

mesh reads .mesh/config.yaml from the project root. Commands search
upward from the working directory, so they work from any subdirectory.

Top-level fields
----------------

  project         Project name. Required. Output lands under
                  .mesh/projects/<project>/.
  host            Bind and dial host for role servers.
                  Default: localhost.
  ports           Map of role name to listen port. Defaults:
                  business 5000, architecture 5001, developer 5002,
                  qa 5003, audit 5004, documentation 5005.
  watch-interval  Seconds between filesystem poll sweeps. Default: 2.
  max-recovery-attempts
                  Continuation budget per truncated response.
                  Default: 3.

generation
----------

  api-url         Chat-completions endpoint URL. Required.
  api-key-env     Environment variable holding the API key.
                  Default: LLM_API_KEY. The key itself never appears
                  in the config file.
  model           Model identifier sent with every request. Required.
  temperature     Sampling temperature. Default: 0.7.
  max-tokens      Completion token cap. Default: 4096.
  timeout         Seconds per generation call. Default: 30.

Ports must be distinct across roles. The config is validated on load;
a broken config stops every command, not just serve.
`

const topicNotifications = `Notifications
=============

Roles learn about upstream work through two channels that carry the
same payload, so either one alone keeps the pipeline moving.

Push channel
------------

Every role serves HTTP:

  POST /notify      deliver a notification
  GET  /status      role name, liveness, project
  GET  /artifacts   list of files in the role's output directory

When a role finishes a unit of work it POSTs a notification to every
other role. Receivers gate on the dependency graph, so broadcasting
widely is safe: a role that does not depend on the source drops the
notification.

A notification is JSON:

  {
    "id":        "<uuid>",
    "source":    "architecture",
    "kind":      "update",
    "payload":   { ... },
    "timestamp": "2025-01-01T00:00:00Z"
  }

kind is "update" for completed work and "error" for failures. Error
notifications are informational; a role never generates work from an
upstream failure.

Watch channel
-------------

Each role also polls its upstreams' output directories. A new or
modified .json artifact (other than state.json) counts as an upstream
update, exactly as if it had been pushed. The first sweep after
startup only takes a snapshot, so restarting a role does not replay
work that already happened.

Processing is idempotent: receiving the same update twice reruns the
role against the same input and produces the same artifacts.
`

const topicRecovery = `Response Recovery
=================

Generation endpoints truncate long responses. mesh detects likely
truncation and asks the model to continue before parsing.

A response is considered truncated when any of these hold:

  - it has an odd number of code fences
  - its last character is not a natural stopping character
    (closing brace or bracket, quote, semicolon, or newline)
  - it opens more braces than it closes

On detection, mesh reissues the conversation with an instruction to
continue from the cutoff point and appends the continuation. This
repeats until the text looks complete, the model returns nothing, or
the attempt budget (max-recovery-attempts) runs out. A failed
continuation call keeps the partial text rather than discarding it.

After recovery, extraction runs. JSON roles try, in order: parsing the
cleaned response directly, parsing after punctuation normalization,
parsing the contents of a json-tagged code fence, and scanning for the
longest balanced JSON object in the text. File roles parse the
manifest markers. If nothing structured comes out, the role records an
error with the raw text preserved in its state for inspection, and no
result is published downstream.
`

const topicArtifacts = `Project Artifacts
=================

Each role writes into its own directory:

  .mesh/projects/<project>/<role>/

Contents:

  state.json      The role's persisted state: status (idle,
                  processing, completed, error), last update time, the
                  last result, and an error description when failed.
                  Written atomically on every transition.

  result.json     The role's published output. For JSON roles this
                  wraps the extracted document; for file roles it
                  lists the written files. Dependents watch for this
                  file.

  <manifest files>
                  File roles (developer, documentation) write each
                  manifest entry at its relative path, e.g.
                  src/app.py or docs/guide.md. Paths that escape the
                  output directory are rejected.

State is diagnostic, not a journal: a restarted role does not replay
missed notifications from state.json. The watch channel picks up any
upstream artifact that changes after the restart.

'mesh status' renders every role's state.json alongside a liveness
probe of its port. 'mesh doctor' digs deeper when something is stuck.
`
