package reporter

import "github.com/liftlab/liftwire/pkg/models"

// personaGuidance steers the generation backend per audience. The executive
// guidance doubles as the fallback for safety.
var personaGuidance = map[models.Persona]string{
	models.PersonaExecutive: `- Focus on strategic impact, ROI, and business outcomes
- Use executive language and highlight bottom-line impact
- Emphasize competitive advantage and market positioning
- Keep technical details minimal
- Include clear recommendations for scaling or stopping`,

	models.PersonaOperations: `- Focus on implementation details, campaign efficiency, and operational metrics
- Include specific numbers on campaign performance and conversion rates
- Discuss execution challenges and optimization opportunities
- Provide actionable next steps for campaign management
- Balance strategic context with tactical recommendations`,

	models.PersonaDataTeam: `- Focus on methodology, statistical rigor, and data quality
- Include technical details about the analysis approach
- Discuss assumptions, limitations, and confidence levels
- Mention specific statistical tests, p-values, and confidence intervals
- Provide data quality assessments and validation checks`,
}

func guidanceFor(persona models.Persona) string {
	if guidance, ok := personaGuidance[persona]; ok {
		return guidance
	}

	return personaGuidance[models.PersonaExecutive]
}
