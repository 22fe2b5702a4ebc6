package locale

// MessageKey 标识一条面向客户端的提示文案。
type MessageKey string

const (
	MsgUnauthorized     MessageKey = "unauthorized"
	MsgForbidden        MessageKey = "forbidden"
	MsgInvalidRequest   MessageKey = "invalid_request"
	MsgValidationFailed MessageKey = "validation_failed"
	MsgUnexpected       MessageKey = "unexpected"
	MsgInvalidID        MessageKey = "invalid_id"
	MsgTooManyAttempts  MessageKey = "too_many_attempts"

	MsgPageListFailed    MessageKey = "page_list_failed"
	MsgPageNotFound      MessageKey = "page_not_found"
	MsgPageLoadFailed    MessageKey = "page_load_failed"
	MsgPageSlugExists    MessageKey = "page_slug_exists"
	MsgPageSlugInvalid   MessageKey = "page_slug_invalid"
	MsgPageTitleRequired MessageKey = "page_title_required"
	MsgPageTemplate      MessageKey = "page_template_invalid"
	MsgPageCreateFailed  MessageKey = "page_create_failed"
	MsgPageUpdateFailed  MessageKey = "page_update_failed"
	MsgPageDeleteFailed  MessageKey = "page_delete_failed"

	MsgMenuListFailed     MessageKey = "menu_list_failed"
	MsgMenuNotFound       MessageKey = "menu_not_found"
	MsgMenuNameRequired   MessageKey = "menu_name_required"
	MsgMenuTypeInvalid    MessageKey = "menu_type_invalid"
	MsgMenuPageRequired   MessageKey = "menu_page_required"
	MsgMenuURLInvalid     MessageKey = "menu_url_invalid"
	MsgMenuParentInvalid  MessageKey = "menu_parent_invalid"
	MsgMenuOrderInvalid   MessageKey = "menu_order_invalid"
	MsgMenuCreateFailed   MessageKey = "menu_create_failed"
	MsgMenuUpdateFailed   MessageKey = "menu_update_failed"
	MsgMenuDeleteFailed   MessageKey = "menu_delete_failed"
	MsgMenuReorderFailed  MessageKey = "menu_reorder_failed"
	MsgMenuReorderSuccess MessageKey = "menu_reorder_success"

	MsgSettingsLoadFailed  MessageKey = "settings_load_failed"
	MsgSettingsSaveFailed  MessageKey = "settings_save_failed"
	MsgSettingsKeyInvalid  MessageKey = "settings_key_invalid"
	MsgSettingsKeyReserved MessageKey = "settings_key_reserved"
	MsgSocialLinksInvalid  MessageKey = "social_links_invalid"

	MsgDomainLoadFailed    MessageKey = "domain_load_failed"
	MsgDomainAddFailed     MessageKey = "domain_add_failed"
	MsgDomainRemoveFailed  MessageKey = "domain_remove_failed"
	MsgDomainVerifyFailed  MessageKey = "domain_verify_failed"
	MsgDomainNotSet        MessageKey = "domain_not_set"
	MsgDomainInvalid       MessageKey = "domain_invalid"
	MsgDomainNotConfigured MessageKey = "domain_not_configured"

	MsgAuthFieldsRequired   MessageKey = "auth_fields_required"
	MsgAuthPasswordTooShort MessageKey = "auth_password_too_short"
	MsgAuthEmailTaken       MessageKey = "auth_email_taken"
	MsgAuthInvalidLogin     MessageKey = "auth_invalid_login"
	MsgAuthRegisterFailed   MessageKey = "auth_register_failed"
	MsgAuthRegisterClosed   MessageKey = "auth_register_closed"
	MsgAuthSessionFailed    MessageKey = "auth_session_failed"

	MsgUploadMissing  MessageKey = "upload_missing"
	MsgUploadNotImage MessageKey = "upload_not_image"
	MsgUploadFailed   MessageKey = "upload_failed"
	MsgUploadTooLarge MessageKey = "upload_too_large"
)

type message struct {
	ko string
	zh string
	en string
}

var catalog = map[MessageKey]message{
	MsgUnauthorized:     {ko: "로그인이 필요합니다", zh: "请先登录", en: "Unauthorized"},
	MsgForbidden:        {ko: "권한이 없습니다", zh: "没有权限执行该操作", en: "Forbidden"},
	MsgInvalidRequest:   {ko: "잘못된 요청입니다", zh: "请求格式不正确", en: "Malformed request"},
	MsgValidationFailed: {ko: "입력값을 확인해주세요", zh: "参数校验失败", en: "Validation failed"},
	MsgUnexpected:       {ko: "알 수 없는 오류가 발생했습니다. 잠시 후 다시 시도해주세요", zh: "服务器开小差了，请稍后再试", en: "Unexpected error, please try again later"},
	MsgInvalidID:        {ko: "잘못된 ID입니다", zh: "无效的ID", en: "Invalid id"},
	MsgTooManyAttempts:  {ko: "시도 횟수가 너무 많습니다. 잠시 후 다시 시도해주세요", zh: "尝试次数过多，请稍后再试", en: "Too many attempts, please try again later"},

	MsgPageListFailed:    {ko: "페이지 목록을 불러오는데 실패했습니다", zh: "获取页面列表失败", en: "Failed to load pages"},
	MsgPageNotFound:      {ko: "페이지를 찾을 수 없습니다", zh: "页面不存在", en: "Page not found"},
	MsgPageLoadFailed:    {ko: "페이지를 불러오는데 실패했습니다", zh: "加载页面失败", en: "Failed to load page"},
	MsgPageSlugExists:    {ko: "이미 존재하는 URL입니다", zh: "该 URL 已被使用", en: "This URL is already in use"},
	MsgPageSlugInvalid:   {ko: "URL은 영문 소문자, 숫자, 하이픈만 사용할 수 있습니다", zh: "URL 只能包含小写字母、数字和连字符", en: "URL may only contain lowercase letters, digits and hyphens"},
	MsgPageTitleRequired: {ko: "페이지 제목을 입력해주세요", zh: "请填写页面标题", en: "Title is required"},
	MsgPageTemplate:      {ko: "지원하지 않는 템플릿입니다", zh: "不支持的页面模板", en: "Unsupported page template"},
	MsgPageCreateFailed:  {ko: "페이지 생성에 실패했습니다", zh: "创建页面失败", en: "Failed to create page"},
	MsgPageUpdateFailed:  {ko: "페이지 수정에 실패했습니다", zh: "更新页面失败", en: "Failed to update page"},
	MsgPageDeleteFailed:  {ko: "페이지 삭제에 실패했습니다", zh: "删除页面失败", en: "Failed to delete page"},

	MsgMenuListFailed:     {ko: "메뉴 목록을 불러오는데 실패했습니다", zh: "获取菜单失败", en: "Failed to load menus"},
	MsgMenuNotFound:       {ko: "메뉴를 찾을 수 없습니다", zh: "菜单不存在", en: "Menu not found"},
	MsgMenuNameRequired:   {ko: "메뉴 이름을 입력해주세요", zh: "请填写菜单名称", en: "Menu name is required"},
	MsgMenuTypeInvalid:    {ko: "메뉴 타입은 PAGE 또는 CUSTOM이어야 합니다", zh: "菜单类型必须是 PAGE 或 CUSTOM", en: "Menu type must be PAGE or CUSTOM"},
	MsgMenuPageRequired:   {ko: "연결할 페이지를 선택해주세요", zh: "请选择要关联的页面", en: "A linked page is required"},
	MsgMenuURLInvalid:     {ko: "올바른 링크 주소를 입력해주세요", zh: "请填写有效的链接地址", en: "A valid URL is required"},
	MsgMenuParentInvalid:  {ko: "상위 메뉴가 올바르지 않습니다. 한 단계까지만 중첩할 수 있습니다", zh: "上级菜单无效，仅支持一级嵌套", en: "Invalid parent menu, only one level of nesting is supported"},
	MsgMenuOrderInvalid:   {ko: "메뉴 순서 데이터가 올바르지 않습니다", zh: "菜单排序数据无效", en: "Invalid menu order"},
	MsgMenuCreateFailed:   {ko: "메뉴 생성에 실패했습니다", zh: "创建菜单失败", en: "Failed to create menu"},
	MsgMenuUpdateFailed:   {ko: "메뉴 수정에 실패했습니다", zh: "更新菜单失败", en: "Failed to update menu"},
	MsgMenuDeleteFailed:   {ko: "메뉴 삭제에 실패했습니다", zh: "删除菜单失败", en: "Failed to delete menu"},
	MsgMenuReorderFailed:  {ko: "메뉴 순서 저장에 실패했습니다", zh: "保存菜单顺序失败", en: "Failed to save menu order"},
	MsgMenuReorderSuccess: {ko: "메뉴 순서가 저장되었습니다", zh: "菜单顺序已保存", en: "Menu order saved"},

	MsgSettingsLoadFailed:  {ko: "설정을 불러오는데 실패했습니다", zh: "获取设置失败", en: "Failed to load settings"},
	MsgSettingsSaveFailed:  {ko: "설정 저장에 실패했습니다", zh: "保存设置失败", en: "Failed to save settings"},
	MsgSettingsKeyInvalid:  {ko: "설정 항목 이름이 올바르지 않습니다", zh: "设置项名称无效", en: "Invalid setting key"},
	MsgSettingsKeyReserved: {ko: "이 설정은 도메인 관리에서 변경할 수 있습니다", zh: "该设置项需通过域名接口管理", en: "This setting is managed by the domain API"},
	MsgSocialLinksInvalid:  {ko: "소셜 링크 형식이 올바르지 않습니다", zh: "社交链接格式不正确", en: "Invalid social links"},

	MsgDomainLoadFailed:    {ko: "도메인 정보를 불러오는데 실패했습니다", zh: "获取域名信息失败", en: "Failed to load domain"},
	MsgDomainAddFailed:     {ko: "도메인 추가에 실패했습니다", zh: "添加域名失败", en: "Failed to add domain"},
	MsgDomainRemoveFailed:  {ko: "도메인 삭제에 실패했습니다", zh: "删除域名失败", en: "Failed to remove domain"},
	MsgDomainVerifyFailed:  {ko: "도메인 검증에 실패했습니다", zh: "域名验证失败", en: "Failed to verify domain"},
	MsgDomainNotSet:        {ko: "설정된 도메인이 없습니다", zh: "尚未设置自定义域名", en: "No custom domain configured"},
	MsgDomainInvalid:       {ko: "올바른 도메인을 입력해주세요", zh: "请填写有效的域名", en: "A valid domain name is required"},
	MsgDomainNotConfigured: {ko: "호스팅 플랫폼 인증 정보가 설정되지 않았습니다", zh: "未配置托管平台凭据", en: "Hosting provider credentials are not configured"},

	MsgAuthFieldsRequired:   {ko: "모든 필드를 입력해주세요", zh: "请填写所有字段", en: "All fields are required"},
	MsgAuthPasswordTooShort: {ko: "비밀번호는 8자 이상이어야 합니다", zh: "密码至少需要 8 个字符", en: "Password must be at least 8 characters"},
	MsgAuthEmailTaken:       {ko: "이미 사용 중인 이메일입니다", zh: "该邮箱已被使用", en: "Email is already in use"},
	MsgAuthInvalidLogin:     {ko: "이메일 또는 비밀번호가 올바르지 않습니다", zh: "邮箱或密码错误", en: "Invalid email or password"},
	MsgAuthRegisterFailed:   {ko: "회원가입 처리 중 오류가 발생했습니다", zh: "注册失败，请稍后再试", en: "Registration failed"},
	MsgAuthRegisterClosed:   {ko: "회원가입이 마감되었습니다", zh: "已关闭注册", en: "Registration is closed"},
	MsgAuthSessionFailed:    {ko: "세션 저장에 실패했습니다", zh: "会话保存失败", en: "Failed to save session"},

	MsgUploadMissing:  {ko: "업로드된 이미지가 없습니다", zh: "未找到上传的图片", en: "No image uploaded"},
	MsgUploadNotImage: {ko: "이미지 파일만 업로드할 수 있습니다", zh: "只允许上传图片文件", en: "Only image files are allowed"},
	MsgUploadFailed:   {ko: "파일 저장에 실패했습니다", zh: "保存文件失败", en: "Failed to store file"},
	MsgUploadTooLarge: {ko: "이미지는 10MB를 초과할 수 없습니다", zh: "图片不能超过 10MB", en: "Image must not exceed 10MB"},
}

// T 返回 key 在指定语言下的文案，未登记的 key 原样返回。
func T(language string, key MessageKey) string {
	msg, ok := catalog[key]
	if !ok {
		return string(key)
	}
	return Pick(language, msg.ko, msg.en, msg.zh)
}

// Pick 按请求语言选择文案，缺省为韩语；目标语言文案为空时依次回退到韩语、英语、中文。
func Pick(language, korean, english, chinese string) string {
	var preferred string
	switch NormalizeLanguage(language) {
	case LanguageEnglish:
		preferred = english
	case LanguageChinese:
		preferred = chinese
	default:
		preferred = korean
	}
	for _, candidate := range []string{preferred, korean, english, chinese} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
