package mcpserver

// NoteFormatContract describes the canonical format of generated notes for
// MCP consumers that read or reason about the vault.
const NoteFormatContract = `# Gebo Note Format Contract

Every note Gebo generates follows this structure.

## Structure

` + "```" + `markdown
---
title: Note Title             # equals the filename stem and the wikilink target
tags:                         # topic slug, plus "hub" on hub notes
  - my-topic
---

# Note Title

Body text in standard Markdown.

## Related Notes

- [[Other Note]]
` + "```" + `

## Rules

1. **Title is identity.** The frontmatter title, the filename stem, and the
   wikilink target other notes use are the same string, character for
   character.
2. **Links are reciprocal.** If this note links to [[Other Note]], then
   "Other Note.md" links back. Every wikilink in the body corresponds to an
   edge in the vault graph; there are no extra or missing links.
3. **Hub notes** carry the ` + "`" + `hub` + "`" + ` tag and link a larger share of the vault.
4. **README.md** is the index document; it links every note but is not a
   graph node itself.
5. Notes are immutable once generated. Regenerate the vault to change them.
`
