// Package prompt holds the review prompt templates. The wording is a tuning
// parameter, but the output grammar each template demands (ISSUE: blocks,
// field prefixes, the NO ISSUES FOUND sentinel, the bare JSON location
// object) is load-bearing for the parsers and must not drift.
package prompt

import "fmt"

const categoryList = "medical_accuracy/citation_missing/misleading_claim/outdated_information/unverified_statement/contraindication/dosage_concern/presentation_style/wording_concern/visual_quality/audio_quality/accessibility/professionalism/other"

// VideoAnalysis reviews a full video and demands timestamped ISSUE blocks.
const VideoAnalysis = `You are a comprehensive video review expert analyzing this medical/health content for ANY potential concerns.

Please identify and list ALL potential issues including:

MEDICAL & CONTENT CONCERNS:
1. Medical inaccuracies or misleading claims - including if its making claims for things the treatment is not proven to do concentrate on what it is approved for.
2. Statements lacking proper citations or sources
3. Outdated medical information
4. Unverified or anecdotal claims presented as fact
5. Potential contraindications or safety concerns
6. Dosage or treatment recommendations that may be concerning

PRESENTATION & QUALITY CONCERNS:
7. Poor presentation style or unprofessional delivery
8. Problematic wording, phrasing, or terminology
9. Visual quality issues (poor lighting, unclear graphics, confusing charts)
10. Audio quality problems (unclear speech, background noise, volume issues)
11. Accessibility concerns (no captions, poor contrast, fast speech)
12. Unprofessional conduct or inappropriate behavior

IMPORTANT: Be VERY thorough and critical. Flag ANYTHING that could be improved, questioned, or raises ANY concern - no matter how minor.

Format each issue EXACTLY as shown below (one issue per block):

ISSUE:
Start: [MM:SS]
End: [MM:SS]
Severity: [low/medium/high/critical]
Category: [` + categoryList + `]
Description: [Detailed explanation of the issue]
Context: [Quote or context from video]

Example:
ISSUE:
Start: 02:15
End: 02:45
Severity: high
Category: medical_accuracy
Description: The speaker claims that vitamin C cures cancer, which contradicts established medical evidence.
Context: "Vitamin C has been proven to cure all types of cancer"

Be extremely thorough and list ALL concerns - even minor style, wording, or quality issues. If absolutely no issues exist, state: "NO ISSUES FOUND"`

// ImageAnalysisWithoutLocation is the phase-1 image review: timestamps are
// N/A and no Location lines are requested.
const ImageAnalysisWithoutLocation = `You are a comprehensive medical image review expert analyzing this medical/health content for ANY potential concerns.

Please identify and list ALL potential issues including:

MEDICAL & CONTENT CONCERNS:
1. Medical inaccuracies or misleading information in diagrams/charts
2. Missing or incorrect labels, annotations, or citations
3. Outdated medical information or deprecated terminology
4. Unverified or questionable data presented as fact
5. Potential safety concerns or contraindications shown
6. Dosage or treatment information that may be concerning

PRESENTATION & QUALITY CONCERNS:
7. Poor visual quality (resolution, clarity, lighting)
8. Confusing or misleading visual design
9. Problematic wording, phrasing, or terminology in text/labels
10. Accessibility concerns (poor contrast, small text, unclear symbols)
11. Unprofessional or inappropriate content
12. Missing context or explanatory information

IMPORTANT: Be VERY thorough and critical. Flag ANYTHING that could be improved, questioned, or raises ANY concern - no matter how minor.

Format each issue EXACTLY as shown below (one issue per block):

ISSUE:
Start: N/A
End: N/A
Severity: [low/medium/high/critical]
Category: [` + categoryList + `]
Description: [Detailed explanation of the issue]
Context: [Description of where in the image the issue appears]

Example:
ISSUE:
Start: N/A
End: N/A
Severity: high
Category: medical_accuracy
Description: The anatomical diagram shows the heart with incorrect chamber labeling - left and right ventricles are reversed.
Context: Main diagram in center of image, ventricle labels

Be extremely thorough and list ALL concerns - even minor design, clarity, or quality issues. If absolutely no issues exist, state: "NO ISSUES FOUND"`

// ImageAnalysisSingleStep is the legacy single-step image review that asks
// for a Location line per issue.
const ImageAnalysisSingleStep = `You are a comprehensive medical image review expert analyzing this medical/health content for ANY potential concerns.

Please identify and list ALL potential issues including:

MEDICAL & CONTENT CONCERNS:
1. Medical inaccuracies or misleading information in diagrams/charts
2. Missing or incorrect labels, annotations, or citations
3. Outdated medical information or deprecated terminology
4. Unverified or questionable data presented as fact
5. Potential safety concerns or contraindications shown
6. Dosage or treatment information that may be concerning

PRESENTATION & QUALITY CONCERNS:
7. Poor visual quality (resolution, clarity, lighting)
8. Confusing or misleading visual design
9. Problematic wording, phrasing, or terminology in text/labels
10. Accessibility concerns (poor contrast, small text, unclear symbols)
11. Unprofessional or inappropriate content
12. Missing context or explanatory information

IMPORTANT: Be VERY thorough and critical. Flag ANYTHING that could be improved, questioned, or raises ANY concern - no matter how minor.

For each issue, provide the location as normalized coordinates (x, y) where the issue appears in the image. Use values between 0.0 and 1.0, where (0, 0) is top-left and (1, 1) is bottom-right.

Format each issue EXACTLY as shown below (one issue per block):

ISSUE:
Start: N/A
End: N/A
Severity: [low/medium/high/critical]
Category: [` + categoryList + `]
Description: [Detailed explanation of the issue]
Context: [Description of where in the image the issue appears]
Location: {"x": 0.5, "y": 0.3}

Example:
ISSUE:
Start: N/A
End: N/A
Severity: high
Category: medical_accuracy
Description: The anatomical diagram shows the heart with incorrect chamber labeling - left and right ventricles are reversed.
Context: Main diagram in center of image, ventricle labels
Location: {"x": 0.5, "y": 0.4}

Be extremely thorough and list ALL concerns - even minor design, clarity, or quality issues. If absolutely no issues exist, state: "NO ISSUES FOUND"`

// FindIssueLocation builds the phase-2 prompt for localizing one issue.
// The model must answer with a single bare JSON object.
func FindIssueLocation(description, issueContext string) string {
	return fmt.Sprintf(`You are analyzing this medical/health image to locate a specific issue that was previously identified.

ISSUE TO LOCATE:
Description: %s
Context: %s

Your task is to identify the location of this specific issue in the image and provide normalized coordinates (x, y) where the issue appears.

Use values between 0.0 and 1.0, where:
- x: 0.0 is the left edge, 1.0 is the right edge
- y: 0.0 is the top edge, 1.0 is the bottom edge

For example, if the issue is in the center of the image, use {"x": 0.5, "y": 0.5}.

Respond with ONLY a JSON object in this exact format:
{"x": 0.5, "y": 0.3}

Do not include any other text or explanation.`, description, issueContext)
}
