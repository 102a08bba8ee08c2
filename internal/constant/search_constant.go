package constant

// AnswerSystemInstructionV1 is the fixed system instruction for answer
// generation. It is part of the service contract: changing it changes
// observable behavior, so revisions get a new versioned constant instead of
// editing this one.
const AnswerSystemInstructionV1 = "You are a helpful assistant. Use the provided context to answer questions. If the answer is not in the context, say you do not know."

// ContextSeparator joins retrieved fragment texts. Multi-character sentinel
// unlikely to occur inside fragment content.
const ContextSeparator = "\n---\n"
