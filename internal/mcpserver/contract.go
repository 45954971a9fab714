package mcpserver

// PostFormatContract describes the post document format that LLM consumers
// should follow when drafting posts.
const PostFormatContract = `# Inkwell Post Format Contract

Every post is one file in the content directory named ` + "`" + `<slug>.mdx` + "`" + `
(` + "`" + `.md` + "`" + ` is also read). The slug is the file name without the extension.

## Structure

` + "```" + `markdown
---
title: Human-readable title     # defaults to "Untitled"
excerpt: One-sentence summary    # defaults to ""
date: 2024-01-03                 # ISO-8601 date or datetime; defaults to now
author: Jane Doe                 # defaults to the site author
category: Repair                 # defaults to "General"
tags:                            # defaults to []
  - fryer
  - oven
image: /assets/fryer.jpg         # optional
---

Body text in Markdown or MDX.
` + "```" + `

## Rules

1. **The header is optional but must be valid.** A file whose header cannot
   be decoded is skipped by every listing and reported by ` + "`" + `get_post` + "`" + `.
2. **Slugs** are lowercase words joined by hyphens: ` + "`" + `ice-machine-care` + "`" + `.
3. **Dates** must parse as ISO-8601. Posts are listed newest first.
4. **Categories** group posts; a shared category is the strongest signal
   for related posts. Category matching for relatedness is case-sensitive,
   so reuse the exact spelling of existing categories (see ` + "`" + `list_categories` + "`" + `).
5. **Tags** are short lowercase words. Each tag shared with another post
   adds to relatedness; reuse existing tags (see ` + "`" + `list_tags` + "`" + `).
6. **Reading time** is computed from the body. Do not author it.
7. **Images** are uploaded with ` + "`" + `upload_image` + "`" + ` and referenced by the
   returned ` + "`" + `/assets/<file>` + "`" + ` path.

## Example

` + "```" + `markdown
---
title: Keeping Your Ice Machine Clean
excerpt: A monthly routine that prevents most service calls.
date: 2024-02-10
category: Tips
tags:
  - ice-machine
  - cleaning
image: /assets/ice-machine.jpg
---

Scale builds up faster than most kitchens expect...
` + "```" + `
`
