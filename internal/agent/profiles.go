package agent

import (
	"github.com/jorge-barreto/mesh/internal/extract"
	"github.com/jorge-barreto/mesh/internal/role"
)

// fileFormat reminds the endpoint how to format multi-file output so the
// manifest extractor can pick it apart.
const fileFormat = "For each file use the format:\n\n" +
	"### File: path/to/file.ext\n" +
	"```\n" +
	"file content\n" +
	"```\n"

var profiles = map[role.Role]Profile{
	role.Business: {
		System: "You are a Business Analyst. Produce a requirements analysis including: " +
			"1. Project Scope 2. Functional Requirements 3. Non-Functional Requirements " +
			"4. Stakeholders 5. Success Criteria. Format the output as structured JSON.",
		Task: "Analyze the requirements for project $PROJECT based on this brief: $PAYLOAD",
		Mode: extract.ModeJSON,
	},
	role.Architecture: {
		System: "You are a Software Architect. Design a system architecture including: " +
			"1. Component Overview 2. Data Model 3. Interfaces 4. Technology Choices " +
			"5. Deployment Topology. Format the output as structured JSON.",
		Task: "Design the architecture for project $PROJECT from these requirements (source: $SOURCE): $PAYLOAD",
		Mode: extract.ModeJSON,
	},
	role.Developer: {
		System: "You are an expert Software Developer. Generate implementation files based on " +
			"the provided architecture and specifications. " + fileFormat +
			"Generate complete, production-ready code following best practices, " +
			"with proper error handling and documentation.",
		Task: "Generate the implementation files for project $PROJECT from this architecture (source: $SOURCE): $PAYLOAD",
		Mode: extract.ModeFiles,
	},
	role.QA: {
		System: "You are a QA Engineer specialized in software testing. Create a comprehensive " +
			"test plan including: 1. Test Strategy 2. Test Cases 3. Integration Tests " +
			"4. Performance Tests 5. Security Tests 6. Acceptance Criteria. " +
			"Format the output as structured JSON.",
		Task: "Create a test plan and test cases for this implementation of project $PROJECT (source: $SOURCE): $PAYLOAD",
		Mode: extract.ModeJSON,
	},
	role.Audit: {
		System: "You are a Security and Compliance Auditor. Review the implementation and test " +
			"results for: 1. Security Findings 2. Code Quality Issues 3. Compliance Gaps " +
			"4. Risk Assessment 5. Recommendations. Format the output as structured JSON.",
		Task: "Audit project $PROJECT based on this input (source: $SOURCE): $PAYLOAD",
		Mode: extract.ModeJSON,
	},
	role.Documentation: {
		System: "You are a Technical Writer. Produce project documentation covering overview, " +
			"architecture, usage, testing, and audit results. " + fileFormat +
			"Write clear markdown documents.",
		Task: "Write the documentation for project $PROJECT incorporating this update (source: $SOURCE): $PAYLOAD",
		Mode: extract.ModeFiles,
	},
}
