// Package logentry provides the log record type of the process engine's
// file-system logging repository and the codec that maps a record to one
// delimited text line and back.
//
// A log file may interleave two record shapes:
//   - ProcessModel: a message about a whole process model execution
//   - FlowNodeInstance: a message about one flow node instance
//
// The leading discriminator token decides which field layout follows.
// Three on-disk revisions exist and each is selected explicitly through a
// Format value; the codec never guesses the revision of a line.
//
// # Formats
//
//	semicolon     Kind;Timestamp;Correlation;ProcessModel;ProcessInstance;FlowNodeInstance;FlowNode;Level;Message
//	semicolon-v1  Kind;Timestamp;Correlation;ProcessModel;FlowNodeInstance;FlowNode;Level;Message
//	tab           Timestamp\tCorrelation\tProcessModel\tProcessInstance\tFlowNodeInstance\tFlowNode\tLevel\tMessage
//
// Only the semicolon revision escapes field content (\\, \;, \n, \r). The two
// legacy revisions are written as they were shipped, so the codec refuses to
// encode values that would corrupt a legacy line.
package logentry
