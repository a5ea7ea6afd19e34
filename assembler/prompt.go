package assembler

import "fmt"

// systemDirective instructs the LLM to ground strictly in the supplied
// context and to address multi-part questions fully (spec.md §4.6 step 2).
const systemDirective = `You are a precise legal and insurance document assistant. Answer questions using ONLY the provided context.
Rules:
1. Only state facts directly supported by the context below.
2. Cite the specific clause, section, or article number whenever the context provides one.
3. If the question has multiple parts, address each part separately and completely.
4. If the context does not contain enough information to answer, say so explicitly rather than guessing.
5. Always finish your answer at a complete sentence; never stop mid-sentence.`

// buildUserBlock assembles the formatted context plus the original,
// un-normalized question (spec.md §4.6 step 2).
func buildUserBlock(formattedContext, rawQuestion string) string {
	return fmt.Sprintf(`Context:
%s

Question: %s

Answer the question fully, citing clauses or sections from the context above.`, formattedContext, rawQuestion)
}
