package story

// Classification of problems reported by graph validation.
// ENUM(brokenLink, orphanedSection, duplicateSectionId, missingMetadataField, emptyStory)
type DiagnosticKind int

// Classification of fatal parsing failures.
// ENUM(malformedMetadataBlock, missingSectionHeader)
type ParseErrorKind int
