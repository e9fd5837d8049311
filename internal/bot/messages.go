package bot

// User-facing replies. Kept in one place so channel adapters and tests share
// the exact wording.
const (
	msgApology = "Sorry, something went wrong on our side. Please try again in a moment."

	msgHelp = "Send me something like \"find remote backend jobs in Lagos\" to search postings, or upload your CV (PDF or DOCX)."

	msgProviderDown = "We couldn't reach one of our providers just now. Please try again shortly."

	msgFileTooLarge    = "That file is over the 5 MB limit. Please send a smaller CV."
	msgEmptyUpload     = "That upload came through empty. Please try sending your CV again."
	msgUnsupportedType = "I can only read PDF or Word documents, but this looks like %s."
	msgMalwareDetected = "That file failed our security scan, so I can't accept it."
	msgNoTextExtracted = "I couldn't find any text in that document. Please send a text-based CV, not a scanned image."

	msgPaymentRequired       = "Applying is unlocked with a one-time payment. Complete it here and then come back:\n%s"
	msgUploadPaymentRequired = "CV uploads are unlocked with a one-time payment. Complete it here and then send your CV again:\n%s"

	msgCVReceived            = "Got your CV ✅"
	msgCVPrompt              = "You're all set payment-wise — now upload your CV (PDF or DOCX) so I can apply for you."
	msgCoverLetterPrompt     = "Now send me a cover letter, or reply \"generate\" and I'll write one from your CV."
	msgCoverLetterSaved      = "Cover letter saved. Search for jobs and tell me where to apply!"
	msgCoverLetterNeedsCV    = "I need your CV before I can write a cover letter. Upload it first (PDF or DOCX)."
	msgNoSearchResults       = "No postings matched that search. Try different keywords or another location."
	msgNothingToApply        = "I don't have a recent search to apply from. Search for jobs first, then say \"apply all\" or \"apply <n>\"."
	msgNoValidJobs           = "None of those postings are available anymore, so no applications were submitted."
	msgSearchFooter          = "Reply \"apply all\" or \"apply <n>\" to submit your CV."
)
