package model

// ToCategoryDTO maps a persisted category to its public shape
func ToCategoryDTO(c *Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		Name:         c.Name,
		CreationDate: c.CreationDate,
	}
}

// ToCategoryDTOs maps a slice, never returning nil
func ToCategoryDTOs(categories []Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, ToCategoryDTO(&categories[i]))
	}
	return dtos
}

// CategoryFromCreateDTO builds a new category from a create request
func CategoryFromCreateDTO(dto CreateCategoryDTO) *Category {
	return &Category{Name: dto.Name}
}

// CategoryFromDTO builds a category from an update request
func CategoryFromDTO(dto CategoryDTO) *Category {
	return &Category{
		ID:           dto.ID,
		Name:         dto.Name,
		CreationDate: dto.CreationDate,
	}
}

// ToCourseDTO maps a persisted course to its public shape
func ToCourseDTO(c *Course) CourseDTO {
	dto := CourseDTO{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Duration:       c.Duration,
		ImageRoute:     c.ImageRoute,
		Classification: c.Classification,
		CreationDate:   c.CreationDate,
		CategoryID:     c.CategoryID,
	}
	if c.Category != nil {
		category := ToCategoryDTO(c.Category)
		dto.Category = &category
	}
	return dto
}

// ToCourseDTOs maps a slice, never returning nil
func ToCourseDTOs(courses []Course) []CourseDTO {
	dtos := make([]CourseDTO, 0, len(courses))
	for i := range courses {
		dtos = append(dtos, ToCourseDTO(&courses[i]))
	}
	return dtos
}

// CourseFromCreateDTO builds a new course from a create request. Image
// fields are filled in by the caller.
func CourseFromCreateDTO(dto CreateCourseDTO) *Course {
	return &Course{
		Name:           dto.Name,
		Description:    dto.Description,
		Duration:       dto.Duration,
		Classification: dto.Classification,
		CategoryID:     dto.CategoryID,
	}
}

// CourseFromUpdateDTO builds a course from an update request
func CourseFromUpdateDTO(dto UpdateCourseDTO) *Course {
	return &Course{
		ID:             dto.ID,
		Name:           dto.Name,
		Description:    dto.Description,
		Duration:       dto.Duration,
		Classification: dto.Classification,
		CategoryID:     dto.CategoryID,
	}
}

// ToUserDataDTO maps a user to the data returned by register and login
func ToUserDataDTO(u *User) *UserDataDTO {
	return &UserDataDTO{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
}

// ToUserDTO maps a user, including role names when loaded
func ToUserDTO(u *User) UserDTO {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Roles:    roles,
	}
}

// ToUserDTOs maps a slice, never returning nil
func ToUserDTOs(users []User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, ToUserDTO(&users[i]))
	}
	return dtos
}
