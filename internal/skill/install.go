package skill

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/agentdeck/agentdeck/internal/api"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9@/_.-]+$`)

// ValidateInstall checks a skill-install request against an agent before any
// network call: the repo URL must be https, the skill name must match the
// allowed character set, and the (repo, name) pair must not already exist on
// the agent.
func ValidateInstall(agent api.Agent, repoURL, skillName string) error {
	repoURL = strings.TrimSpace(repoURL)
	skillName = strings.TrimSpace(skillName)

	if repoURL == "" {
		return fmt.Errorf("repo URL is required")
	}
	u, err := url.Parse(repoURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("repo URL must be a valid https URL")
	}

	if skillName == "" {
		return fmt.Errorf("skill name is required")
	}
	if !namePattern.MatchString(skillName) {
		return fmt.Errorf("skill name may only contain letters, digits, and @/_.-")
	}

	for _, s := range agent.SubAgentSkills {
		if s.RepoURL == repoURL && s.SkillName == skillName {
			return fmt.Errorf("skill %s from %s is already configured on %s", skillName, repoURL, agent.Name)
		}
	}
	return nil
}

// BuildUpdate returns the agent update that appends one skill to the agent's
// configured set. The server replaces the list wholesale, so the existing
// pairs ride along.
func BuildUpdate(agent api.Agent, repoURL, skillName string) api.AgentUpdate {
	skills := make([]api.SubAgentSkill, 0, len(agent.SubAgentSkills)+1)
	skills = append(skills, agent.SubAgentSkills...)
	skills = append(skills, api.SubAgentSkill{
		RepoURL:   strings.TrimSpace(repoURL),
		SkillName: strings.TrimSpace(skillName),
	})
	return api.AgentUpdate{SubAgentSkills: skills}
}
