package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create workflow_presets table
			CREATE TABLE workflow_presets (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_global BOOLEAN NOT NULL DEFAULT FALSE,
				created_by VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflow_presets_is_global ON workflow_presets(is_global);
			CREATE INDEX idx_workflow_presets_created_by ON workflow_presets(created_by);
			CREATE INDEX idx_workflow_presets_created_at ON workflow_presets(created_at);
			CREATE INDEX idx_workflow_presets_deleted_at ON workflow_presets(deleted_at);
			CREATE UNIQUE INDEX idx_workflow_presets_name_scope
				ON workflow_presets(name, is_global) WHERE deleted_at IS NULL;

			-- Create preset_sequences table
			CREATE TABLE preset_sequences (
				preset_id UUID NOT NULL REFERENCES workflow_presets(id) ON DELETE CASCADE,
				position INT NOT NULL,
				revision_description_id VARCHAR(255) NOT NULL,
				revision_step_id VARCHAR(255) NOT NULL,
				is_final BOOLEAN NOT NULL DEFAULT FALSE,
				requires_transmittal BOOLEAN NOT NULL DEFAULT FALSE,
				PRIMARY KEY (preset_id, position),
				UNIQUE (preset_id, revision_description_id, revision_step_id)
			);

			CREATE INDEX idx_preset_sequences_preset_id ON preset_sequences(preset_id);

			-- Create preset_rules table; position preserves authoring order
			CREATE TABLE preset_rules (
				preset_id UUID NOT NULL REFERENCES workflow_presets(id) ON DELETE CASCADE,
				position INT NOT NULL,
				current_revision_description_id VARCHAR(255) NOT NULL,
				current_revision_step_id VARCHAR(255) NOT NULL,
				operator VARCHAR(50) NOT NULL CHECK (operator IN ('equals', 'not_equals')),
				review_code_ids JSONB NOT NULL,
				next_revision_description_id VARCHAR(255),
				next_revision_step_id VARCHAR(255),
				action_on_fail VARCHAR(100) NOT NULL DEFAULT 'increment_number',
				priority INT NOT NULL DEFAULT 100,
				PRIMARY KEY (preset_id, position)
			);

			CREATE INDEX idx_preset_rules_preset_id ON preset_rules(preset_id);

			-- Create vocabulary catalog tables
			CREATE TABLE revision_descriptions (
				id VARCHAR(255) PRIMARY KEY,
				code VARCHAR(50) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE revision_steps (
				id VARCHAR(255) PRIMARY KEY,
				code VARCHAR(50) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE review_codes (
				id VARCHAR(255) PRIMARY KEY,
				code VARCHAR(50) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE UNIQUE INDEX idx_revision_descriptions_code ON revision_descriptions(code);
			CREATE UNIQUE INDEX idx_revision_steps_code ON revision_steps(code);
			CREATE UNIQUE INDEX idx_review_codes_code ON review_codes(code);
		`,
	}
}
